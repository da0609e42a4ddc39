package results

// Mode selects which dimension of a results view is fixed.
type Mode int

const (
	// ByContent fixes one piece of content and varies the learner.
	ByContent Mode = iota
	// ByUser fixes one learner and varies the content.
	ByUser
)

// Scope is the fixed dimension of a results view: exactly one content id
// or one user id, never both and never neither.
type Scope struct {
	Mode Mode
	ID   int64
}

func ContentScope(id int64) Scope { return Scope{Mode: ByContent, ID: id} }
func UserScope(id int64) Scope    { return Scope{Mode: ByUser, ID: id} }

// ResultRecord is one page row from the attempt store. SubjectID and
// Name carry the varying dimension: the learner in per-content views,
// the content in per-learner views. Time == 0 means the duration was not
// explicitly recorded and must be derived from Finished - Opened.
type ResultRecord struct {
	ID        int64
	SubjectID int64
	Name      string
	Score     int64
	MaxScore  int64
	Opened    int64 // epoch seconds
	Finished  int64 // epoch seconds
	Time      int64 // seconds
}

// PageSpec is a validated pagination window.
type PageSpec struct {
	Offset int
	Limit  int
}

// SortSpec is the raw sort request. Field is an index into the
// mode-dependent sortable field list and is range-checked when the query
// spec is built, not here, because the valid range depends on the mode.
type SortSpec struct {
	Field     int
	Ascending bool
}

// QuerySpec is a mode-resolved description of one list query. Where and
// Joins are shared by the page and count queries so a filtered count can
// never reference an unjoined column.
type QuerySpec struct {
	ExtraColumns []string
	Joins        []string
	Where        string
	Args         []any
	OrderBy      string
	Page         PageSpec
}

type sortField struct {
	column string
	// Text columns are reverse sorted by default: the applied direction
	// is the negation of the requested one.
	reverse bool
}
