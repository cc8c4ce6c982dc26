package discount

import "errors"

var (
	ErrDiscountNotFound    = errors.New("discount not found")
	ErrTaxCategoryReserved = errors.New("INSS and IRPF discounts are managed by the salary calculation")
	ErrUserNotFound        = errors.New("user not found")
)
