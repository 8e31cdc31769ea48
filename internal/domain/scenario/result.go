package scenario

// ResultRecord is the payload a handler returns for one step. The engine only
// appends it to the log of the active phase.
type ResultRecord struct {
	Meta     *Meta  `json:"meta,omitempty"`
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
}

// NewResult builds a record for action a carrying the selector and value the
// handler acted on.
func NewResult(a Action, selector, value string) ResultRecord {
	rec := ResultRecord{Selector: selector, Value: value}
	if !a.Meta.IsZero() {
		meta := a.Meta
		rec.Meta = &meta
	}
	return rec
}

func (r ResultRecord) clone() ResultRecord {
	if r.Meta != nil {
		meta := *r.Meta
		r.Meta = &meta
	}
	return r
}
