package adapters

// Typed wrappers over the generic record conversion, one per logical model.

// UserOf converts a record into a User view.
func UserOf(rec Record) (*User, error) { return As[User](rec) }

// ThreadOf converts a record into a Thread view.
func ThreadOf(rec Record) (*Thread, error) { return As[Thread](rec) }

// FeedbackOf converts a record into a Feedback view.
func FeedbackOf(rec Record) (*Feedback, error) { return As[Feedback](rec) }

// ThreadsOf converts a FindMany result into Thread views, in order.
func ThreadsOf(recs []Record) ([]Thread, error) { return AsSlice[Thread](recs) }

// FeedbacksOf converts a FindMany result into Feedback views, in order.
func FeedbacksOf(recs []Record) ([]Feedback, error) { return AsSlice[Feedback](recs) }
