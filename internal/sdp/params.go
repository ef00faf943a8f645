package sdp

// ListInfo carries pagination and sorting controls for list calls.
// Absent fields are omitted from the wire entirely, never sent as null.
type ListInfo struct {
	RowCount      int    `json:"row_count,omitempty"`
	StartIndex    int    `json:"start_index,omitempty"`
	SortField     string `json:"sort_field,omitempty"`
	SortOrder     string `json:"sort_order,omitempty"`
	GetTotalCount bool   `json:"get_total_count,omitempty"`
}

// SearchCriterion is one filter clause in a list call.
type SearchCriterion struct {
	Field     string `json:"field"`
	Condition string `json:"condition"`
	Value     any    `json:"value"`

	// LogicalOperator joins this criterion with the next one. The SDP
	// API requires every criterion except the last to carry "AND" (or
	// "OR") and the last to carry none; InputData stamps this.
	LogicalOperator string `json:"logical_operator,omitempty"`
}

// Is builds an exact-match criterion.
func Is(field, value string) SearchCriterion {
	return SearchCriterion{Field: field, Condition: "is", Value: value}
}

// IsNot builds an exclusion criterion.
func IsNot(field, value string) SearchCriterion {
	return SearchCriterion{Field: field, Condition: "is not", Value: value}
}

// Contains builds a partial-match criterion.
func Contains(field, value string) SearchCriterion {
	return SearchCriterion{Field: field, Condition: "contains", Value: value}
}

// ListParams accumulates filters and pagination for ListRequests.
// Criteria keep their insertion order on the wire.
type ListParams struct {
	info     ListInfo
	criteria []SearchCriterion
}

// NewListParams creates empty list parameters.
func NewListParams() *ListParams {
	return &ListParams{}
}

// WithLimit caps the number of results.
func (p *ListParams) WithLimit(limit int) *ListParams {
	p.info.RowCount = limit
	return p
}

// WithOffset sets the starting index for pagination.
func (p *ListParams) WithOffset(offset int) *ListParams {
	p.info.StartIndex = offset
	return p
}

// WithSort sets the sort field and order ("asc" or "desc").
func (p *ListParams) WithSort(field, order string) *ListParams {
	p.info.SortField = field
	p.info.SortOrder = order
	return p
}

// WithTotalCount requests the total match count alongside results.
func (p *ListParams) WithTotalCount() *ListParams {
	p.info.GetTotalCount = true
	return p
}

// WithStatus filters by status name.
func (p *ListParams) WithStatus(status string) *ListParams {
	return p.WithCriterion(Is("status.name", status))
}

// WithPriority filters by priority name.
func (p *ListParams) WithPriority(priority string) *ListParams {
	return p.WithCriterion(Is("priority.name", priority))
}

// WithTechnician filters by assigned technician name.
func (p *ListParams) WithTechnician(technician string) *ListParams {
	return p.WithCriterion(Is("technician.name", technician))
}

// WithRequester filters by requester name.
func (p *ListParams) WithRequester(requester string) *ListParams {
	return p.WithCriterion(Is("requester.name", requester))
}

// closedStatuses are excluded by WithOpenOnly.
var closedStatuses = []string{
	"Lukket",
	"Annulleret",
	"Udført, afventer godkendelse",
}

// WithOpenOnly excludes closed, cancelled and completed statuses.
func (p *ListParams) WithOpenOnly() *ListParams {
	for _, status := range closedStatuses {
		p.WithCriterion(IsNot("status.name", status))
	}
	return p
}

// WithCreatedAfter filters by creation date (ISO 8601 YYYY-MM-DD).
func (p *ListParams) WithCreatedAfter(date string) *ListParams {
	return p.WithCriterion(SearchCriterion{
		Field: "created_time", Condition: "greater than", Value: date,
	})
}

// WithCreatedBefore filters by creation date (ISO 8601 YYYY-MM-DD).
func (p *ListParams) WithCreatedBefore(date string) *ListParams {
	return p.WithCriterion(SearchCriterion{
		Field: "created_time", Condition: "less than", Value: date,
	})
}

// WithSubjectContains filters by partial subject match.
func (p *ListParams) WithSubjectContains(subject string) *ListParams {
	return p.WithCriterion(Contains("subject", subject))
}

// WithCriterion appends a raw search criterion.
func (p *ListParams) WithCriterion(c SearchCriterion) *ListParams {
	p.criteria = append(p.criteria, c)
	return p
}

// InputData builds the input_data structure for the list endpoint. SDP
// expects search_criteria nested inside list_info, with every criterion
// except the last carrying an explicit combinator.
func (p *ListParams) InputData() any {
	type listInfoData struct {
		ListInfo
		SearchCriteria []SearchCriterion `json:"search_criteria,omitempty"`
	}

	return map[string]any{
		"list_info": listInfoData{
			ListInfo:       p.info,
			SearchCriteria: stampCombinators(p.criteria),
		},
	}
}

// stampCombinators returns a copy of criteria where the first n-1
// entries carry an explicit combinator (defaulting to "AND") and the
// last carries none.
func stampCombinators(criteria []SearchCriterion) []SearchCriterion {
	if len(criteria) == 0 {
		return nil
	}
	stamped := make([]SearchCriterion, len(criteria))
	copy(stamped, criteria)
	for i := range stamped[:len(stamped)-1] {
		if stamped[i].LogicalOperator == "" {
			stamped[i].LogicalOperator = "AND"
		}
	}
	stamped[len(stamped)-1].LogicalOperator = ""
	return stamped
}
