package render

// RenderOptions describe per-request data renderers use to customise their
// output without mutating the record.
type RenderOptions struct {
	// Action is the URL the rendered form submits to.
	Action string
	// Values pre-populates rendered controls keyed by field name.
	Values map[string]string
	// Hidden adds extra hidden inputs. The bookkeeping fields (cmd, op,
	// filediv) are always emitted once and cannot be overridden here.
	Hidden []HiddenField
}

// Value returns the prefilled value for a field.
func (o RenderOptions) Value(name string) string {
	if o.Values == nil {
		return ""
	}
	return o.Values[name]
}
