package doctor

import "errors"

// ErrCannotFix is what Fix returns on a check with no automatic repair.
var ErrCannotFix = errors.New("check cannot be fixed automatically")

// Doctor runs a fixed sequence of health checks against one install scope.
type Doctor struct {
	checks []Check
}

// NewDoctor returns a Doctor with no checks registered.
func NewDoctor() *Doctor {
	return &Doctor{}
}

// RegisterAll appends checks in the order they should run.
func (d *Doctor) RegisterAll(checks ...Check) {
	d.checks = append(d.checks, checks...)
}

// Run executes every check and collects the results into a report.
func (d *Doctor) Run(ctx *CheckContext) *Report {
	return d.run(ctx, false)
}

// Fix is Run with repair: a failing check that can fix itself gets one fix
// attempt followed by a re-run, so the report reflects the state after the
// repair rather than before it.
func (d *Doctor) Fix(ctx *CheckContext) *Report {
	return d.run(ctx, true)
}

func (d *Doctor) run(ctx *CheckContext, fix bool) *Report {
	report := NewReport()

	for _, check := range d.checks {
		result := d.runCheck(check, ctx)

		if fix && result.Status != StatusOK && check.CanFix() {
			if err := check.Fix(ctx); err != nil {
				result.Details = append(result.Details, "fix failed: "+err.Error())
			} else {
				result = d.runCheck(check, ctx)
				if result.Status == StatusOK {
					result.Message += " (fixed)"
				}
			}
		}

		report.Add(result)
	}

	return report
}

func (d *Doctor) runCheck(check Check, ctx *CheckContext) *CheckResult {
	result := check.Run(ctx)
	if result.Name == "" {
		result.Name = check.Name()
	}
	return result
}

// BaseCheck carries the name and description shared by all checks and
// declares the check unfixable. Checks with a repair embed FixableCheck
// instead.
type BaseCheck struct {
	CheckName        string
	CheckDescription string
}

func (b *BaseCheck) Name() string        { return b.CheckName }
func (b *BaseCheck) Description() string { return b.CheckDescription }

func (b *BaseCheck) CanFix() bool { return false }

func (b *BaseCheck) Fix(ctx *CheckContext) error {
	return ErrCannotFix
}

// FixableCheck is BaseCheck for checks that implement Fix.
type FixableCheck struct {
	BaseCheck
}

func (f *FixableCheck) CanFix() bool { return true }
