package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidFilters = errors.New("invalid filters")

// Filters narrows every aggregation query. Either a single date or a
// startDate/endDate pair may be given, not both.
type Filters struct {
	EmployeeID string
	Date       string
	StartDate  string
	EndDate    string
}

const dateLayout = "2006-01-02"

func (f Filters) Validate() error {
	if f.Date != "" && (f.StartDate != "" || f.EndDate != "") {
		return fmt.Errorf("%w: date and date range are exclusive", ErrInvalidFilters)
	}
	if (f.StartDate == "") != (f.EndDate == "") {
		return fmt.Errorf("%w: startDate and endDate must be given together", ErrInvalidFilters)
	}

	for _, d := range []string{f.Date, f.StartDate, f.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidFilters, d)
		}
	}

	if f.StartDate != "" && f.StartDate > f.EndDate {
		return fmt.Errorf("%w: startDate after endDate", ErrInvalidFilters)
	}
	return nil
}

// whereClause builds the SQL filter with arg indexes starting at 1. Returns
// an empty string when no filter applies.
func (f Filters) whereClause() (string, []any) {
	var conds []string
	var args []any

	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		conds = append(conds, fmt.Sprintf("employee_id=$%d", len(args)))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		conds = append(conds, fmt.Sprintf("fix_date=$%d", len(args)))
	}
	if f.StartDate != "" {
		args = append(args, f.StartDate)
		conds = append(conds, fmt.Sprintf("fix_date>=$%d", len(args)))
		args = append(args, f.EndDate)
		conds = append(conds, fmt.Sprintf("fix_date<=$%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}
