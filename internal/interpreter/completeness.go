package interpreter

import (
	"fmt"

	"github.com/vk/ucompcheck/internal/model"
)

// checkCompleteness reports every coronal exposure class without a dark and
// every coronal configuration without a flat, in recording order.
func checkCompleteness(a *accumulator) model.Issues {
	var issues model.Issues
	for _, sig := range a.coronalExp.Values() {
		if !a.darks.Has(sig) {
			issues = append(issues, model.Issue{
				Severity: model.SeverityWarning,
				Code:     model.CodeMissingDark,
				Scope:    a.path,
				Message:  fmt.Sprintf("Missing dark for configuration: %s", sig),
				Context:  "exposure/gain/numsum",
			})
		}
	}
	for _, sig := range a.coronalFull.Values() {
		if !a.flats.Has(sig) {
			issues = append(issues, model.Issue{
				Severity: model.SeverityWarning,
				Code:     model.CodeMissingFlat,
				Scope:    a.path,
				Message:  fmt.Sprintf("Missing flat for configuration: %s", sig),
				Context:  "gain/numsum/camera/continuum/wavelength",
			})
		}
	}
	return issues
}
