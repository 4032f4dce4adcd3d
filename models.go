package adapters

import "time"

// Model names a logical entity. Callers program against logical models and
// logical field names; the adapter maps both onto the physical schema.
type Model string

const (
	ModelUser     Model = "user"
	ModelThread   Model = "thread"
	ModelFeedback Model = "feedback"
)

// Record is a logical record: logical field name to value. Drivers exchange
// the same shape keyed by physical column names.
type Record map[string]any

// FieldID is the logical identifier field shared by all models.
const FieldID = "id"

// requiredFields lists the fields every record of a model must be able to
// store. The schema validator resolves each of these to a physical column at
// construction time.
var requiredFields = map[Model][]string{
	ModelUser:     {"id", "name", "createdAt", "updatedAt"},
	ModelThread:   {"id", "userId", "createdAt", "updatedAt"},
	ModelFeedback: {"id", "threadId", "userId", "type", "createdAt", "updatedAt"},
}

// optionalFields lists fields a model may store. They are only validated when
// the configuration explicitly maps them to a column.
var optionalFields = map[Model][]string{
	ModelUser:     {},
	ModelThread:   {"title", "metadata", "organizationId", "tenantId"},
	ModelFeedback: {"rating", "comment", "helpful", "value"},
}

// Models returns the logical models in a stable order.
func Models() []Model {
	return []Model{ModelUser, ModelThread, ModelFeedback}
}

func knownModel(m Model) bool {
	_, ok := requiredFields[m]
	return ok
}

// KnownFields returns the required fields of a model followed by its optional
// fields. The result is a copy.
func KnownFields(m Model) []string {
	fields := make([]string, 0, len(requiredFields[m])+len(optionalFields[m]))
	fields = append(fields, requiredFields[m]...)
	fields = append(fields, optionalFields[m]...)
	return fields
}

// User is the typed view of a user record.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Thread is the typed view of a thread record. Referential integrity of
// UserID is the backing store's responsibility.
type Thread struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Title          string         `json:"title,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OrganizationID string         `json:"organizationId,omitempty"`
	TenantID       string         `json:"tenantId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Feedback is the typed view of a feedback record.
type Feedback struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"threadId"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Rating    *int      `json:"rating,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	Helpful   *bool     `json:"helpful,omitempty"`
	Value     *float64  `json:"value,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
