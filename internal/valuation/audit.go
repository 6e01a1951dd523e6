package valuation

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"tasador/server/internal/models"
)

// auditTolerance is the rounding slack allowed between the replayed average
// and the stored one. Anything beyond it means a defect in the calculator or
// in the replay itself.
const auditTolerance = 1.0

// AuditGenerator replays a completed valuation step by step. The replay is a
// re-derivation of the arithmetic, not an echo of stored values: a mismatch
// with the stored result is flagged, never papered over.
type AuditGenerator struct {
	logger *logrus.Logger
}

func NewAuditGenerator(logger *logrus.Logger) *AuditGenerator {
	return &AuditGenerator{logger: logger}
}

// Generate reconstructs the computation behind one ValuationResult. Steps
// come out in the calculator's order of operations: base price, percentage
// adjustments in list order, absolute additions, optimism, capping when it
// was applied, then the uncertainty range.
func (g *AuditGenerator) Generate(property models.PropertyData, market models.MarketData, result models.ValuationResult) models.AuditReport {
	var steps []models.AuditStep
	addStep := func(name, description string, input, output float64, formula string) {
		steps = append(steps, models.AuditStep{
			Index:       len(steps) + 1,
			Name:        name,
			Description: description,
			Input:       input,
			Output:      output,
			Formula:     formula,
		})
	}

	basePrice := market.MeanPricePerSqm * property.Area
	addStep("base_price", "Zone mean price per square meter times declared area",
		market.MeanPricePerSqm, basePrice,
		fmt.Sprintf("%.2f €/m² × %.2f m² = %.2f €", market.MeanPricePerSqm, property.Area, basePrice))

	value := basePrice
	for _, adj := range result.Adjustments {
		if adj.Absolute {
			continue
		}
		next := value * (1 + adj.Percent/100)
		addStep("adjustment: "+adj.Label, adj.Description, value, next,
			fmt.Sprintf("%.2f € × (1 %+g/100) = %.2f €", value, adj.Percent, next))
		value = next
	}
	for _, adj := range result.Adjustments {
		if !adj.Absolute {
			continue
		}
		next := value + adj.Amount
		addStep("addition: "+adj.Label, adj.Description, value, next,
			fmt.Sprintf("%.2f € %+.0f € = %.2f €", value, adj.Amount, next))
		value = next
	}

	next := value * OptimismFactor
	addStep("optimism", "Fixed disclosed upward bias applied to every valuation",
		value, next, fmt.Sprintf("%.2f € × %.2f = %.2f €", value, OptimismFactor, next))
	value = next

	if result.Capping != nil {
		capped, info := capToZone(value, market, property.Area)
		addStep("capping",
			fmt.Sprintf("Clamp to the realistic zone band (%s)", info.Reason),
			value, capped,
			fmt.Sprintf("band [%.2f, %.2f] € → %.2f €",
				market.MinPricePerSqm*property.Area*capFloorTolerance,
				market.MaxPricePerSqm*property.Area*capCeilingTolerance,
				capped))
		value = capped
	}

	uncertainty, err := ParseUncertaintyLabel(result.Uncertainty)
	if err != nil {
		g.logger.WithError(err).Warn("Stored uncertainty label unreadable, replaying range without margin")
	}
	avg := math.Round(value)
	addStep("range", "Round the price and derive the min/max band from the uncertainty margin",
		value, avg,
		fmt.Sprintf("round(%.2f) = %.0f €; %s → min %.0f €, max %.0f €",
			value, avg, result.Uncertainty,
			math.Round(value*(1-uncertainty)), math.Round(value*(1+uncertainty))))

	if math.Abs(avg-float64(result.AveragePrice)) > auditTolerance {
		g.logger.WithFields(logrus.Fields{
			"replayed": avg,
			"stored":   result.AveragePrice,
		}).Error("Audit replay disagrees with stored valuation")
	}

	summary := models.AuditSummary{
		AdjustmentCount: len(result.Adjustments),
		CombinedFactor:  CombinedFactor(result.Adjustments),
		BasePrice:       basePrice,
		FinalPrice:      avg,
		AbsoluteChange:  avg - basePrice,
	}
	if basePrice > 0 {
		summary.PercentChange = (avg - basePrice) / basePrice * 100
	}

	return models.AuditReport{
		GeneratedAt: time.Now(),
		Property:    property,
		Market:      market,
		Steps:       steps,
		Result:      result,
		Summary:     summary,
	}
}

// Validate checks a report for internal consistency: the replay produced
// steps, its final figure matches the stored result within rounding
// tolerance, and the summary's adjustment count matches the result.
func ValidateAuditReport(report models.AuditReport) (bool, []string) {
	var errs []string

	if len(report.Steps) == 0 {
		errs = append(errs, "report contains no steps")
	} else {
		last := report.Steps[len(report.Steps)-1]
		if math.Abs(last.Output-float64(report.Result.AveragePrice)) > auditTolerance {
			errs = append(errs, fmt.Sprintf(
				"replayed average %.0f does not match stored average %d",
				last.Output, report.Result.AveragePrice))
		}
	}

	if report.Summary.AdjustmentCount != len(report.Result.Adjustments) {
		errs = append(errs, fmt.Sprintf(
			"summary counts %d adjustments, result carries %d",
			report.Summary.AdjustmentCount, len(report.Result.Adjustments)))
	}

	return len(errs) == 0, errs
}

// AuditRows flattens a report to one row per step (plus a header), for the
// tabular export. Numeric snapshots use the shortest lossless decimal form so
// the flat export carries the same numeric content as the nested one.
func AuditRows(report models.AuditReport) [][]string {
	rows := [][]string{{"index", "name", "description", "formula", "input", "output"}}
	for _, step := range report.Steps {
		rows = append(rows, []string{
			strconv.Itoa(step.Index),
			step.Name,
			step.Description,
			step.Formula,
			strconv.FormatFloat(step.Input, 'f', -1, 64),
			strconv.FormatFloat(step.Output, 'f', -1, 64),
		})
	}
	return rows
}

// WriteAuditCSV streams the tabular form of a report.
func WriteAuditCSV(report models.AuditReport, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(AuditRows(report)); err != nil {
		return fmt.Errorf("failed to write audit csv: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
