package types

import "fmt"

var (
	ErrInvalidQuoteFormat                = fmt.Errorf("invalid quote format")
	ErrInvalidSchedule                   = fmt.Errorf("invalid coupon schedule")
	ErrInvalidHolidayDate                = fmt.Errorf("invalid holiday date")
	ErrSettlementNotFound                = fmt.Errorf("no business day found for settlement")
	ErrYieldToMaturityNoConvergence      = fmt.Errorf("Newton-Raphson failed to converge within max iterations")
	ErrYieldToMaturityDerivativeTooSmall = fmt.Errorf("%w (derivative is too small)", ErrYieldToMaturityNoConvergence)
)
