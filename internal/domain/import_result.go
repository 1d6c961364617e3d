package domain

// Action is the outcome the reconciler took for a single row.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// RowError describes one failed row with whatever identifying information
// could be salvaged from the raw row before the failure.
type RowError struct {
	Line        int    `json:"line"`
	CNPJ        string `json:"cnpj,omitempty"`
	RazaoSocial string `json:"razaoSocial,omitempty"`
	Error       string `json:"error"`
}

// RowSuccess describes one processed row and the action taken for it.
type RowSuccess struct {
	Line        int    `json:"line"`
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razaoSocial"`
	Action      Action `json:"action"`
}

// ImportResult is the aggregate outcome of one import batch. It is built
// incrementally by the orchestrator and returned once at the end; it is never
// persisted.
type ImportResult struct {
	TotalProcessed int          `json:"totalProcessed"`
	Created        int          `json:"created"`
	Updated        int          `json:"updated"`
	Errors         int          `json:"errors"`
	ErrorDetails   []RowError   `json:"errorDetails"`
	SuccessDetails []RowSuccess `json:"successDetails"`
}

// AddSuccess records a processed row and bumps the matching counter.
func (r *ImportResult) AddSuccess(line int, cnpj, razaoSocial string, action Action) {
	switch action {
	case ActionCreated:
		r.Created++
	case ActionUpdated:
		r.Updated++
	}
	r.SuccessDetails = append(r.SuccessDetails, RowSuccess{
		Line:        line,
		CNPJ:        cnpj,
		RazaoSocial: razaoSocial,
		Action:      action,
	})
}

// AddError records a failed row and bumps the error counter.
func (r *ImportResult) AddError(line int, cnpj, razaoSocial string, err error) {
	r.Errors++
	r.ErrorDetails = append(r.ErrorDetails, RowError{
		Line:        line,
		CNPJ:        cnpj,
		RazaoSocial: razaoSocial,
		Error:       err.Error(),
	})
}
