package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/localmart/local-services/internal/model"
)

// ReservationRepo manages customer reservations against garage sale
// events.  A customer holds at most one DRAFT per event; selection
// edits replace that draft's lines wholesale.  Confirmation runs in a
// caller-owned transaction through the ...Tx methods so stock checks,
// decrements and the status flip commit or roll back together.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// GetOrCreateDraft returns the customer's open draft for the event,
// creating one when none exists.  New drafts inherit the event's
// consultant as the pickup contact.
func (r *ReservationRepo) GetOrCreateDraft(ctx context.Context, customerID, eventID uint64, defaultConsultant *uint64) (model.Reservation, error) {
    res, err := r.getDraft(ctx, customerID, eventID)
    if err == nil {
        return res, nil
    }
    if err != sql.ErrNoRows {
        return model.Reservation{}, err
    }
    ins, err := r.db.ExecContext(ctx,
        `INSERT INTO reservations (event_id, customer_id, status, payment_status, consultant_id)
         VALUES (?, ?, 'DRAFT', 'UNPAID', ?)`,
        eventID, customerID, defaultConsultant)
    if err != nil {
        // concurrent create of the same draft
        if isDuplicateEntry(err) {
            return r.getDraft(ctx, customerID, eventID)
        }
        return model.Reservation{}, err
    }
    id, err := ins.LastInsertId()
    if err != nil {
        return model.Reservation{}, err
    }
    out := model.Reservation{
        ID:            uint64(id),
        EventID:       eventID,
        CustomerID:    customerID,
        Status:        model.ReservationDraft,
        PaymentStatus: model.PaymentUnpaid,
        ConsultantID:  defaultConsultant,
    }
    return out, nil
}

const reservationColumns = `id, event_id, customer_id, status, payment_status, consultant_id, created_at, confirmed_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (model.Reservation, error) {
    var res model.Reservation
    var consID sql.NullInt64
    var confirmedAt sql.NullTime
    err := row.Scan(&res.ID, &res.EventID, &res.CustomerID, &res.Status,
        &res.PaymentStatus, &consID, &res.CreatedAt, &confirmedAt)
    if err != nil {
        return model.Reservation{}, err
    }
    if consID.Valid {
        v := uint64(consID.Int64)
        res.ConsultantID = &v
    }
    if confirmedAt.Valid {
        t := confirmedAt.Time.UTC()
        res.ConfirmedAt = &t
    }
    return res, nil
}

func (r *ReservationRepo) getDraft(ctx context.Context, customerID, eventID uint64) (model.Reservation, error) {
    return scanReservation(r.db.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations
         WHERE customer_id = ? AND event_id = ? AND status = 'DRAFT' LIMIT 1`,
        customerID, eventID))
}

// LatestDraft returns the customer's draft for the event together with
// its lines, or sql.ErrNoRows when no draft exists.
func (r *ReservationRepo) LatestDraft(ctx context.Context, customerID, eventID uint64) (model.Reservation, []ReservationLine, error) {
    res, err := r.getDraft(ctx, customerID, eventID)
    if err != nil {
        return model.Reservation{}, nil, err
    }
    lines, err := r.Lines(ctx, res.ID)
    if err != nil {
        return model.Reservation{}, nil, err
    }
    return res, lines, nil
}

// GetByID returns a reservation by id.  sql.ErrNoRows when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
    return scanReservation(r.db.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
    return scanReservation(tx.QueryRowContext(ctx,
        `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
}

// SelectedLine is the (item, quantity) pair sent by the cart UI.
type SelectedLine struct {
    ItemID   uint64 `json:"item_id"`
    Quantity uint32 `json:"quantity"`
}

// ReplaceLines swaps the draft's lines for the given selection.  The
// previous selection is discarded entirely; zero-quantity entries are
// skipped, so sending an empty list clears the cart.  Prices are
// snapshotted from the current listing so a later price edit by the
// owner does not silently change what the customer agreed to.
// ErrNotDraft when the reservation has already been confirmed,
// ErrItemGone when a selected item vanished since the caller looked.
func (r *ReservationRepo) ReplaceLines(ctx context.Context, reservationID uint64, lines []SelectedLine) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var status string
    err = tx.QueryRowContext(ctx,
        `SELECT status FROM reservations WHERE id = ? FOR UPDATE`, reservationID).Scan(&status)
    if err != nil {
        return err
    }
    if status != model.ReservationDraft {
        return ErrNotDraft
    }

    if _, err := tx.ExecContext(ctx,
        `DELETE FROM reservation_items WHERE reservation_id = ?`, reservationID); err != nil {
        return err
    }
    for _, ln := range lines {
        if ln.Quantity == 0 {
            continue
        }
        res, err := tx.ExecContext(ctx,
            `INSERT INTO reservation_items (reservation_id, item_id, quantity, price_cents)
             SELECT ?, id, ?, price_cents FROM sale_items WHERE id = ?`,
            reservationID, ln.Quantity, ln.ItemID)
        if err != nil {
            return err
        }
        // INSERT ... SELECT inserts nothing when the item row is gone;
        // that must fail the whole selection, not shrink it.
        if n, err := res.RowsAffected(); err != nil {
            return err
        } else if n == 0 {
            return ErrItemGone
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ClearDraft deletes a draft reservation outright, lines and row both.
// Confirmed reservations are untouchable; ErrNotDraft is returned when
// the row is no longer a draft.
func (r *ReservationRepo) ClearDraft(ctx context.Context, reservationID uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var status string
    err = tx.QueryRowContext(ctx,
        `SELECT status FROM reservations WHERE id = ? FOR UPDATE`, reservationID).Scan(&status)
    if err != nil {
        return err
    }
    if status != model.ReservationDraft {
        return ErrNotDraft
    }
    if _, err := tx.ExecContext(ctx,
        `DELETE FROM reservation_items WHERE reservation_id = ?`, reservationID); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        `DELETE FROM reservations WHERE id = ?`, reservationID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// AssignConsultantTx sets the pickup consultant on a reservation that
// does not have one yet.  Used at confirmation to default from the
// event.
func (r *ReservationRepo) AssignConsultantTx(ctx context.Context, tx *sql.Tx, reservationID, consultantID uint64) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE reservations SET consultant_id = ? WHERE id = ? AND consultant_id IS NULL`,
        consultantID, reservationID)
    return err
}

// ReservationLine is a reservation line joined with its item title and
// current availability for review and shortage reporting.
type ReservationLine struct {
    ItemID     uint64 `json:"item_id"`
    Title      string `json:"title"`
    Quantity   uint32 `json:"quantity"`
    PriceCents uint32 `json:"price_cents"`
}

// Lines returns the lines of a reservation with item titles.
func (r *ReservationRepo) Lines(ctx context.Context, reservationID uint64) ([]ReservationLine, error) {
    const q = `SELECT ri.item_id, COALESCE(si.title, 'Unknown'), ri.quantity, ri.price_cents
               FROM reservation_items ri
               LEFT JOIN sale_items si ON si.id = ri.item_id
               WHERE ri.reservation_id = ?
               ORDER BY ri.item_id`
    rows, err := r.db.QueryContext(ctx, q, reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ReservationLine, 0)
    for rows.Next() {
        var ln ReservationLine
        if err := rows.Scan(&ln.ItemID, &ln.Title, &ln.Quantity, &ln.PriceCents); err != nil {
            return nil, err
        }
        out = append(out, ln)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// DraftLinesTx reads the draft's lines inside the confirmation
// transaction.  Ordering by item_id keeps the subsequent FOR UPDATE
// locks in a deterministic order.
func (r *ReservationRepo) DraftLinesTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]SelectedLine, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT item_id, quantity FROM reservation_items WHERE reservation_id = ? ORDER BY item_id`,
        reservationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []SelectedLine
    for rows.Next() {
        var ln SelectedLine
        if err := rows.Scan(&ln.ItemID, &ln.Quantity); err != nil {
            return nil, err
        }
        out = append(out, ln)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// LockedItem is a sale item row read under FOR UPDATE during
// confirmation.
type LockedItem struct {
    ID        uint64
    Title     string
    Available uint32
}

// LockItemsTx locks the given sale items FOR UPDATE and returns their
// current titles and quantities.  Rows are locked in ascending id
// order so two concurrent confirmations touching overlapping items
// acquire locks in the same order and cannot deadlock.  Items missing
// from the result no longer exist.
func (r *ReservationRepo) LockItemsTx(ctx context.Context, tx *sql.Tx, itemIDs []uint64) (map[uint64]LockedItem, error) {
    if len(itemIDs) == 0 {
        return map[uint64]LockedItem{}, nil
    }
    placeholders := strings.Repeat("?,", len(itemIDs))
    placeholders = placeholders[:len(placeholders)-1]
    q := `SELECT id, title, quantity_available FROM sale_items
          WHERE id IN (` + placeholders + `) ORDER BY id ASC FOR UPDATE`
    args := make([]interface{}, len(itemIDs))
    for i, id := range itemIDs {
        args[i] = id
    }
    rows, err := tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]LockedItem, len(itemIDs))
    for rows.Next() {
        var it LockedItem
        if err := rows.Scan(&it.ID, &it.Title, &it.Available); err != nil {
            return nil, err
        }
        out[it.ID] = it
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// DecrementItemTx subtracts qty from an item's available quantity.  The
// guard clause never lets stock go negative; zero affected rows means
// the availability changed after the lock, which cannot happen under
// FOR UPDATE and is reported as ErrConflict out of caution.
func (r *ReservationRepo) DecrementItemTx(ctx context.Context, tx *sql.Tx, itemID uint64, qty uint32) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE sale_items SET quantity_available = quantity_available - ?
         WHERE id = ? AND quantity_available >= ?`,
        qty, itemID, qty)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// ConfirmTx flips a DRAFT reservation to CONFIRMED and stamps the
// confirmation time.  The UPDATE is guarded on status = 'DRAFT': zero
// affected rows means the reservation was already confirmed or
// cancelled and ErrNotDraft is returned.
func (r *ReservationRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE reservations SET status = 'CONFIRMED', confirmed_at = NOW()
         WHERE id = ? AND status = 'DRAFT'`,
        reservationID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotDraft
    }
    return nil
}

// PickupOrder is a confirmed reservation summarised for the consultant
// handling pickups at an event.
type PickupOrder struct {
    ReservationID uint64            `json:"reservation_id"`
    EventID       uint64            `json:"event_id"`
    EventTitle    string            `json:"event_title"`
    CustomerEmail string            `json:"customer_email"`
    CustomerPhone string            `json:"customer_phone"`
    PaymentStatus string            `json:"payment_status"`
    TotalCents    uint64            `json:"total_cents"`
    Lines         []ReservationLine `json:"lines"`
}

// ListPickups returns the confirmed reservations at events the
// consultant is assigned to, each with its lines and the order total.
func (r *ReservationRepo) ListPickups(ctx context.Context, consultantID uint64) ([]PickupOrder, error) {
    const q = `SELECT res.id, res.event_id, e.title, u.email, u.phone, res.payment_status
               FROM reservations res
               JOIN garage_sale_events e ON e.id = res.event_id
               JOIN users u ON u.id = res.customer_id
               WHERE res.consultant_id = ? AND res.status = 'CONFIRMED'
               ORDER BY res.confirmed_at, res.id`
    rows, err := r.db.QueryContext(ctx, q, consultantID)
    if err != nil {
        return nil, err
    }
    orders := make([]PickupOrder, 0)
    for rows.Next() {
        var o PickupOrder
        if err := rows.Scan(&o.ReservationID, &o.EventID, &o.EventTitle,
            &o.CustomerEmail, &o.CustomerPhone, &o.PaymentStatus); err != nil {
            rows.Close()
            return nil, err
        }
        orders = append(orders, o)
    }
    if err := rows.Err(); err != nil {
        rows.Close()
        return nil, err
    }
    rows.Close()
    for i := range orders {
        lines, err := r.Lines(ctx, orders[i].ReservationID)
        if err != nil {
            return nil, err
        }
        orders[i].Lines = lines
        var total uint64
        for _, ln := range lines {
            total += uint64(ln.PriceCents) * uint64(ln.Quantity)
        }
        orders[i].TotalCents = total
    }
    return orders, nil
}

// CustomerReservation is a reservation summarised for the customer's
// history view.
type CustomerReservation struct {
    model.Reservation
    EventTitle string            `json:"event_title"`
    TotalCents uint64            `json:"total_cents"`
    Lines      []ReservationLine `json:"lines"`
}

// ListByCustomer returns the customer's non-draft reservations, newest
// first, each with its lines and total.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]CustomerReservation, error) {
    const q = `SELECT res.id, res.event_id, res.customer_id, res.status, res.payment_status,
                      res.consultant_id, res.created_at, res.confirmed_at, e.title
               FROM reservations res
               JOIN garage_sale_events e ON e.id = res.event_id
               WHERE res.customer_id = ? AND res.status <> 'DRAFT'
               ORDER BY res.id DESC`
    rows, err := r.db.QueryContext(ctx, q, customerID)
    if err != nil {
        return nil, err
    }
    out := make([]CustomerReservation, 0)
    for rows.Next() {
        var cr CustomerReservation
        var consID sql.NullInt64
        var confirmedAt sql.NullTime
        if err := rows.Scan(&cr.ID, &cr.EventID, &cr.CustomerID, &cr.Status, &cr.PaymentStatus,
            &consID, &cr.CreatedAt, &confirmedAt, &cr.EventTitle); err != nil {
            rows.Close()
            return nil, err
        }
        if consID.Valid {
            v := uint64(consID.Int64)
            cr.ConsultantID = &v
        }
        if confirmedAt.Valid {
            t := confirmedAt.Time.UTC()
            cr.ConfirmedAt = &t
        }
        out = append(out, cr)
    }
    if err := rows.Err(); err != nil {
        rows.Close()
        return nil, err
    }
    rows.Close()
    for i := range out {
        lines, err := r.Lines(ctx, out[i].ID)
        if err != nil {
            return nil, err
        }
        out[i].Lines = lines
        var total uint64
        for _, ln := range lines {
            total += uint64(ln.PriceCents) * uint64(ln.Quantity)
        }
        out[i].TotalCents = total
    }
    return out, nil
}
