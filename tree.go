package ics

// RawProperty is a content line attached to a component, before any value
// interpretation.
type RawProperty struct {
	Name       Segments
	Parameters []ScannedParameter
	Value      Segments
	Span       Span
}

// RawComponent is a BEGIN/END block. Span runs from the start of the BEGIN
// line to the end of the END line.
type RawComponent struct {
	Name       Segments
	Properties []RawProperty
	Children   []*RawComponent
	Span       Span
}

// BuildTree nests content lines into components using a stack. Lines marked
// by the scanner are skipped, they have been reported already.
func BuildTree(lines []ContentLine) ([]*RawComponent, Diagnostics) {
	var stack []*RawComponent
	var roots []*RawComponent
	var diags Diagnostics
	for i := range lines {
		line := &lines[i]
		if line.Err != nil {
			continue
		}
		switch {
		case line.Name.EqualFold(string(PropertyBegin)):
			if len(line.Parameters) > 0 {
				diags.add(PhaseTree, SeverityError, KindBeginEndWithParameters, line.Span, "BEGIN:%s line with parameters", line.Value)
			}
			stack = append(stack, &RawComponent{Name: line.Value, Span: line.Span})
		case line.Name.EqualFold(string(PropertyEnd)):
			if len(line.Parameters) > 0 {
				diags.add(PhaseTree, SeverityError, KindBeginEndWithParameters, line.Span, "END:%s line with parameters", line.Value)
			}
			if len(stack) == 0 {
				diags.add(PhaseTree, SeverityError, KindUnmatchedEnd, line.Span, "unmatched END:%s (no corresponding BEGIN)", line.Value)
				continue
			}
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !c.Name.EqualFold(line.Value.String()) {
				diags.add(PhaseTree, SeverityError, KindMismatchedNesting, line.Span, "mismatched nesting: expected END:%s, found END:%s", c.Name, line.Value)
			}
			c.Span.End = line.Span.End
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, c)
			} else {
				roots = append(roots, c)
			}
		case len(stack) > 0:
			c := stack[len(stack)-1]
			c.Properties = append(c.Properties, RawProperty{
				Name:       line.Name,
				Parameters: line.Parameters,
				Value:      line.Value,
				Span:       line.Span,
			})
		}
	}
	for _, c := range stack {
		diags.add(PhaseTree, SeverityError, KindUnmatchedBegin, c.Span, "unmatched BEGIN:%s (component not closed)", c.Name)
	}
	return roots, diags
}
