package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"customs-web/internal/models"
	"customs-web/internal/rates"
)

// appliedConcession is the outcome of the concession stage: the duty amount
// to charge, the savings against the base duty, and the descriptor for the
// duty line.
type appliedConcession struct {
	duty       decimal.Decimal
	savings    decimal.Decimal
	descriptor string
}

// applyConcession adjusts the base import duty for an eligible item. At
// most one concession applies. An eligibility flag without a concession
// type is ambiguous and rejected rather than ignored. A concession never
// increases the duty: savings are clamped at zero.
func (c *Calculator) applyConcession(item models.VehicleItem, baseDuty decimal.Decimal, baseDescriptor string) (appliedConcession, error) {
	none := appliedConcession{duty: baseDuty, savings: decimal.Zero, descriptor: baseDescriptor}
	if !item.QualifiesForConcession {
		return none, nil
	}
	if item.ConcessionType == models.ConcessionNone {
		return none, invalidInput("concession_type", "concession eligibility is set but no concession type was supplied")
	}
	rule, ok := c.snap.ConcessionRule(item.ConcessionType)
	if !ok {
		return none, configurationError("no concession rule for type %q", string(item.ConcessionType))
	}

	var adjusted decimal.Decimal
	var descriptor string
	switch rule.Kind {
	case rates.KindPercentOff:
		adjusted = baseDuty.Sub(percentOf(baseDuty, rule.Percent))
		descriptor = fmt.Sprintf("%s, less %s concession", baseDescriptor, percentString(rule.Percent))
	case rates.KindFlatRate:
		adjusted = percentOf(item.CIFValue, rule.Percent)
		descriptor = fmt.Sprintf("flat %s of CIF under concession", percentString(rule.Percent))
	default:
		return none, configurationError("concession %q has unknown kind %q", string(rule.Code), rule.Kind)
	}

	if adjusted.GreaterThan(baseDuty) {
		return none, nil
	}
	return appliedConcession{
		duty:       adjusted,
		savings:    baseDuty.Sub(adjusted),
		descriptor: descriptor,
	}, nil
}
