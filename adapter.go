package adapters

import (
	"context"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/google/uuid"
)

// Adapter maps the logical user/thread/feedback model onto a caller-supplied
// physical schema and orchestrates CRUD against a Driver. It holds no mutable
// state beyond the immutable configuration and schema set at construction,
// so it is safe for concurrent use without internal locking.
//
// The adapter composes no transactions and performs no retries: each call is
// one independent driver operation, and a failed call surfaces immediately.
type Adapter struct {
	opts     Options
	caps     Capabilities
	resolver *resolver
	coerce   coercer
	schema   Schema
	driver   Driver
	logger   *opLogger

	now func() time.Time
}

// New constructs an Adapter over the given driver and schema description,
// merging opts over the documented defaults. It validates the configuration
// against the schema and fails before any CRUD traffic is possible when a
// required field cannot be resolved to an existing column.
func New(driver Driver, schema Schema, opts ...Option) (*Adapter, error) {
	const op errors.Op = "adapters.New"
	if driver == nil {
		return nil, errors.New(op).Msg(ErrMsgNilDriver)
	}
	o := defaultOptions()
	for _, f := range opts {
		f(&o)
	}
	r := newResolver(o)
	if err := validateSchema(o, r, schema); err != nil {
		return nil, errors.New(op).Err(err)
	}
	return &Adapter{
		opts:     o,
		caps:     o.Capabilities,
		resolver: r,
		coerce:   coercer{caps: o.Capabilities},
		schema:   schema,
		driver:   driver,
		logger:   newOpLogger(o.DebugLogs),
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// NewIntrospected constructs an Adapter by asking the driver for the live
// schema of the resolved physical tables. The driver must implement
// SchemaIntrospector.
func NewIntrospected(ctx context.Context, driver Driver, opts ...Option) (*Adapter, error) {
	const op errors.Op = "adapters.NewIntrospected"
	if driver == nil {
		return nil, errors.New(op).Msg(ErrMsgNilDriver)
	}
	si, ok := driver.(SchemaIntrospector)
	if !ok {
		return nil, errors.New(op).Msg(ErrMsgNoIntrospection)
	}
	o := defaultOptions()
	for _, f := range opts {
		f(&o)
	}
	r := newResolver(o)
	tables := make([]string, 0, len(Models()))
	for _, m := range Models() {
		tables = append(tables, r.tableName(m))
	}
	schema, err := si.IntrospectSchema(ctx, tables)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	return New(driver, schema, opts...)
}

// SetDebugEnabled switches operation logging on or off at runtime. The rest
// of the configuration stays immutable.
func (a *Adapter) SetDebugEnabled(enabled bool) { a.logger.SetEnabled(enabled) }

// FindManyOptions parameterizes FindMany. A zero value returns every record
// of the model.
type FindManyOptions struct {
	Where  Where
	Limit  int // 0 means no limit
	Offset int
	SortBy *SortBy
}

// Create stores a new record. Missing createdAt/updatedAt timestamps are
// filled with the current time, and a missing identifier is generated unless
// identifier generation is disabled. When selectFields are given, only those
// logical fields are returned.
func (a *Adapter) Create(ctx context.Context, m Model, data Record, selectFields ...string) (Record, error) {
	const op errors.Op = "adapters.Create"
	if !knownModel(m) {
		return nil, errors.New(op).Errorf("unknown model %q", m)
	}
	table := a.resolver.tableName(m)
	rec := cloneRecord(data)
	now := a.now()
	a.ensureTimestamp(rec, m, "createdAt", now)
	a.ensureTimestamp(rec, m, "updatedAt", now)

	// The identifier may already be present under the logical name or under
	// the resolved physical column; checking both avoids double generation
	// when field mapping renames id.
	physID := a.resolver.fieldName(m, FieldID, directionInput)
	if !a.opts.DisableIDGeneration && !hasValue(rec, FieldID) && !hasValue(rec, physID) {
		rec[FieldID] = a.generateID()
	}

	values := a.toPhysical(m, rec)
	columns := a.physicalColumns(m, selectFields)
	row, err := a.driver.Insert(ctx, InsertRequest{
		Table:        table,
		Values:       values,
		Columns:      columns,
		UseReturning: a.caps.Returning,
	})
	if err != nil {
		a.logger.logOp("create", table, nil, "error")
		return nil, err
	}
	if row == nil {
		if idVal, ok := values[physID]; ok && idVal != nil {
			row, err = a.driver.SelectOne(ctx, SelectRequest{
				Table:   table,
				Where:   []Condition{{Field: physID, Value: idVal, Operator: OpEquals, Connector: ConnectorAnd}},
				Columns: columns,
			})
			if err != nil {
				return nil, err
			}
		}
	}
	if row == nil {
		// No way to read the row back; fall back to what was written.
		row = values
	}
	out := filterRecord(a.toLogical(m, row), selectFields)
	a.logger.logOp("create", table, nil, "record")
	return out, nil
}

// FindOne returns the first record matching where, or (nil, nil) when no
// record matches. Zero matches are an outcome, never an error.
func (a *Adapter) FindOne(ctx context.Context, m Model, where Where, selectFields ...string) (Record, error) {
	const op errors.Op = "adapters.FindOne"
	if !knownModel(m) {
		return nil, errors.New(op).Errorf("unknown model %q", m)
	}
	table := a.resolver.tableName(m)
	conds := a.normalizeWhere(m, where)
	row, err := a.driver.SelectOne(ctx, SelectRequest{
		Table:   table,
		Where:   conds,
		Columns: a.physicalColumns(m, selectFields),
	})
	if err != nil {
		a.logger.logOp("findOne", table, conds, "error")
		return nil, err
	}
	if row == nil {
		a.logger.logOp("findOne", table, conds, "miss")
		return nil, nil
	}
	a.logger.logOp("findOne", table, conds, "hit")
	return filterRecord(a.toLogical(m, row), selectFields), nil
}

// FindMany returns every record matching the options. An empty result is an
// empty slice, not an error.
func (a *Adapter) FindMany(ctx context.Context, m Model, q FindManyOptions) ([]Record, error) {
	const op errors.Op = "adapters.FindMany"
	if !knownModel(m) {
		return nil, errors.New(op).Errorf("unknown model %q", m)
	}
	table := a.resolver.tableName(m)
	conds := a.normalizeWhere(m, q.Where)
	req := SelectRequest{
		Table:  table,
		Where:  conds,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.SortBy != nil {
		dir := q.SortBy.Direction
		if dir == "" {
			dir = SortAsc
		}
		req.Sort = &SortClause{
			Column:    a.resolver.fieldName(m, q.SortBy.Field, directionInput),
			Direction: dir,
		}
	}
	rows, err := a.driver.SelectMany(ctx, req)
	if err != nil {
		a.logger.logOp("findMany", table, conds, "error")
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, a.toLogical(m, row))
	}
	a.logger.logOp("findMany", table, conds, "records="+itoa(len(out)))
	return out, nil
}

// Update modifies every record matching where and returns the updated record,
// or (nil, nil) when no record matched. updatedAt is stamped unless the
// caller supplied it.
func (a *Adapter) Update(ctx context.Context, m Model, where Where, data Record) (Record, error) {
	const op errors.Op = "adapters.Update"
	if !knownModel(m) {
		return nil, errors.New(op).Errorf("unknown model %q", m)
	}
	table := a.resolver.tableName(m)
	conds := a.normalizeWhere(m, where)
	rec := cloneRecord(data)
	a.ensureTimestamp(rec, m, "updatedAt", a.now())
	values := a.toPhysical(m, rec)

	row, matched, err := a.driver.Update(ctx, UpdateRequest{
		Table:        table,
		Where:        conds,
		Values:       values,
		UseReturning: a.caps.Returning,
	})
	if err != nil {
		a.logger.logOp("update", table, conds, "error")
		return nil, err
	}
	if matched == 0 {
		a.logger.logOp("update", table, conds, "miss")
		return nil, nil
	}
	if row == nil {
		// Engine cannot return rows from an update statement; re-fetch with
		// the same predicate. When the update itself changed a predicate
		// field the re-fetch can miss, which callers avoid by filtering on
		// the identifier.
		row, err = a.driver.SelectOne(ctx, SelectRequest{Table: table, Where: conds})
		if err != nil {
			return nil, err
		}
		if row == nil {
			a.logger.logOp("update", table, conds, "miss")
			return nil, nil
		}
	}
	a.logger.logOp("update", table, conds, "record")
	return a.toLogical(m, row), nil
}

// Delete removes every record matching where. Deleting zero records is not
// an error.
func (a *Adapter) Delete(ctx context.Context, m Model, where Where) error {
	const op errors.Op = "adapters.Delete"
	if !knownModel(m) {
		return errors.New(op).Errorf("unknown model %q", m)
	}
	table := a.resolver.tableName(m)
	conds := a.normalizeWhere(m, where)
	if err := a.driver.Delete(ctx, DeleteRequest{Table: table, Where: conds}); err != nil {
		a.logger.logOp("delete", table, conds, "error")
		return err
	}
	a.logger.logOp("delete", table, conds, "done")
	return nil
}

// Count returns the number of records matching where.
func (a *Adapter) Count(ctx context.Context, m Model, where Where) (int64, error) {
	const op errors.Op = "adapters.Count"
	if !knownModel(m) {
		return 0, errors.New(op).Errorf("unknown model %q", m)
	}
	table := a.resolver.tableName(m)
	conds := a.normalizeWhere(m, where)
	n, err := a.driver.Count(ctx, CountRequest{Table: table, Where: conds})
	if err != nil {
		a.logger.logOp("count", table, conds, "error")
		return 0, err
	}
	a.logger.logOp("count", table, conds, "count="+itoa64(n))
	return n, nil
}

// --- orchestration helpers ---

func (a *Adapter) generateID() string {
	if a.opts.GenerateID != nil {
		return a.opts.GenerateID()
	}
	return uuid.NewString()
}

// ensureTimestamp fills a timestamp field unless the caller supplied it under
// either the logical or the resolved physical name.
func (a *Adapter) ensureTimestamp(rec Record, m Model, field string, now time.Time) {
	phys := a.resolver.fieldName(m, field, directionInput)
	if hasValue(rec, field) || hasValue(rec, phys) {
		return
	}
	rec[field] = now
}

// toPhysical resolves field names to columns and input-coerces values.
func (a *Adapter) toPhysical(m Model, rec Record) Record {
	values := make(Record, len(rec))
	for field, v := range rec {
		values[a.resolver.fieldName(m, field, directionInput)] = a.coerce.coerceIn(v)
	}
	return values
}

// toLogical resolves columns back to logical field names and output-coerces
// values.
func (a *Adapter) toLogical(m Model, row Record) Record {
	out := make(Record, len(row))
	for column, v := range row {
		out[a.resolver.fieldName(m, column, directionOutput)] = a.coerce.coerceOut(v)
	}
	return out
}

// physicalColumns resolves a logical select list; nil when unrestricted.
func (a *Adapter) physicalColumns(m Model, selectFields []string) []string {
	if len(selectFields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(selectFields))
	for _, f := range selectFields {
		cols = append(cols, a.resolver.fieldName(m, f, directionInput))
	}
	return cols
}
