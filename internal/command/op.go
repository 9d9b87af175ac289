// Package command defines the closed set of operations the assistant can be
// asked to perform. Every button the UI offers maps to exactly one Op value;
// there is no string-keyed dispatch anywhere in the program.
package command

// Kind discriminates the Op variants.
type Kind int

const (
	KindNone Kind = iota

	// Activity selection and teardown.
	KindStartFormSetup
	KindStartDriverTriage
	KindNewTask

	// Form-setup workflow.
	KindChooseMethod
	KindChooseVehicleType
	KindChooseTrailer
	KindChoosePriority
	KindChooseUploadFormat
	KindFileUploaded
	KindSwitchLayout
	KindApproveForm
	KindEditForm

	// Driver-triage workflow.
	KindFixAll
	KindFixDriver
	KindSaveDriver

	// Roster view (no workflow-step consumption).
	KindSearch
	KindGoToPage

	// Conversation affordances.
	KindFeedback
)

// CreationMethod selects how the inspection form is built.
type CreationMethod string

const (
	MethodBuildWithAI    CreationMethod = "ai"
	MethodUploadExisting CreationMethod = "upload"
)

// VehicleType selects which inspection catalog is generated.
type VehicleType string

const (
	VehicleLight       VehicleType = "light"
	VehicleHeavy       VehicleType = "heavy"
	VehicleSpecialized VehicleType = "specialized"
)

// Priority is the stated main priority for inspections.
type Priority string

const (
	PriorityCompliance  Priority = "compliance"
	PrioritySafety      Priority = "safety"
	PriorityMaintenance Priority = "maintenance"
)

// UploadFormat is the source format of an uploaded form.
type UploadFormat string

const (
	FormatPDF   UploadFormat = "pdf"
	FormatImage UploadFormat = "image"
)

// FormLayout is the preview layout of the generated form.
type FormLayout string

const (
	LayoutMarkDefectsOnly FormLayout = "defects"
	LayoutSubmitAllItems  FormLayout = "submit-all"
)

// DriverEdit carries the three mutable fields of a driver record.
type DriverEdit struct {
	Email         string
	MobileAccess  bool
	VehicleGroups []string
}

// Op is a tagged variant; only the fields relevant to Kind are set.
type Op struct {
	Kind Kind

	Method   CreationMethod
	Vehicle  VehicleType
	Trailer  bool
	Priority Priority
	Format   UploadFormat
	Layout   FormLayout

	FileName string

	DriverID string
	Edit     DriverEdit

	Query string
	Page  int

	Positive bool
}

// Constructors keep call sites terse and make the variant explicit.

func StartFormSetup() Op    { return Op{Kind: KindStartFormSetup} }
func StartDriverTriage() Op { return Op{Kind: KindStartDriverTriage} }
func NewTask() Op           { return Op{Kind: KindNewTask} }

func ChooseMethod(m CreationMethod) Op   { return Op{Kind: KindChooseMethod, Method: m} }
func ChooseVehicleType(v VehicleType) Op { return Op{Kind: KindChooseVehicleType, Vehicle: v} }
func ChooseTrailer(needed bool) Op       { return Op{Kind: KindChooseTrailer, Trailer: needed} }
func ChoosePriority(p Priority) Op       { return Op{Kind: KindChoosePriority, Priority: p} }
func ChooseUploadFormat(f UploadFormat) Op {
	return Op{Kind: KindChooseUploadFormat, Format: f}
}
func FileUploaded(name string) Op    { return Op{Kind: KindFileUploaded, FileName: name} }
func SwitchLayout(l FormLayout) Op   { return Op{Kind: KindSwitchLayout, Layout: l} }
func ApproveForm() Op                { return Op{Kind: KindApproveForm} }
func EditForm() Op                   { return Op{Kind: KindEditForm} }
func FixAll() Op                     { return Op{Kind: KindFixAll} }
func FixDriver(id string) Op         { return Op{Kind: KindFixDriver, DriverID: id} }
func SaveDriver(id string, e DriverEdit) Op {
	return Op{Kind: KindSaveDriver, DriverID: id, Edit: e}
}
func Search(query string) Op  { return Op{Kind: KindSearch, Query: query} }
func GoToPage(n int) Op       { return Op{Kind: KindGoToPage, Page: n} }
func Feedback(positive bool) Op {
	return Op{Kind: KindFeedback, Positive: positive}
}
