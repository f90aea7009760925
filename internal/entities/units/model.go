package units

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridian-pos/meridian-admin/internal/resource"
)

// Unit is a measurement unit. Derived units reference a base unit and
// convert through Operator/OperationValue (e.g. dozen = piece * 12).
type Unit struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	BaseUnitID     *int64          `json:"base_unit_id"`
	Operator       string          `json:"operator"`
	OperationValue decimal.Decimal `json:"operation_value"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      *string         `json:"created_at"`
	UpdatedAt      *string         `json:"updated_at"`
}

// ActiveStatus derives the display status from IsActive.
func (u Unit) ActiveStatus() string {
	return resource.ActiveStatus(u.IsActive)
}

// ConvertToBase converts a quantity in this unit into its base unit
// (dozen = piece * 12: 3 dozen -> 36 pieces). A unit with no operator
// is its own base and converts to itself.
func (u Unit) ConvertToBase(qty decimal.Decimal) (decimal.Decimal, error) {
	switch u.Operator {
	case "":
		return qty, nil
	case "*":
		return qty.Mul(u.OperationValue), nil
	case "/":
		if u.OperationValue.IsZero() {
			return decimal.Zero, errors.New("units: conversion value is zero")
		}
		return qty.Div(u.OperationValue), nil
	default:
		return decimal.Zero, fmt.Errorf("units: unknown operator %q", u.Operator)
	}
}

// ConvertFromBase converts a base-unit quantity into this unit.
func (u Unit) ConvertFromBase(qty decimal.Decimal) (decimal.Decimal, error) {
	switch u.Operator {
	case "":
		return qty, nil
	case "*":
		if u.OperationValue.IsZero() {
			return decimal.Zero, errors.New("units: conversion value is zero")
		}
		return qty.Div(u.OperationValue), nil
	case "/":
		return qty.Mul(u.OperationValue), nil
	default:
		return decimal.Zero, fmt.Errorf("units: unknown operator %q", u.Operator)
	}
}
