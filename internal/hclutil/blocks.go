// Package hclutil holds small helpers shared by the HCL manifest decoders.
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
)

// CheckUniqueLabels reports blocks whose first label repeats an earlier one.
func CheckUniqueLabels(blocks hcl.Blocks, what string) hcl.Diagnostics {
	var diags hcl.Diagnostics
	seen := make(map[string]hcl.Range)
	for _, block := range blocks {
		if len(block.Labels) == 0 {
			continue
		}
		name := block.Labels[0]
		if prev, ok := seen[name]; ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate " + what,
				Detail:   "A " + what + " named \"" + name + "\" was already declared at " + prev.String() + ".",
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = block.DefRange
	}
	return diags
}
