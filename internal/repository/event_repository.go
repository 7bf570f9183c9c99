package repository

import (
    "context"
    "database/sql"

    "github.com/localmart/local-services/internal/model"
)

// EventRepo manages garage sale events and the items listed at them.
type EventRepo struct {
    db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// CreateEvent inserts a garage sale event and populates the generated ID.
func (r *EventRepo) CreateEvent(ctx context.Context, e *model.GarageSaleEvent) error {
    const q = `INSERT INTO garage_sale_events (location_id, owner_id, consultant_id, title, start_date, end_date)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        e.LocationID, e.OwnerID, e.ConsultantID, e.Title, e.StartDate, e.EndDate)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    return nil
}

func scanEvent(row interface{ Scan(...interface{}) error }) (model.GarageSaleEvent, error) {
    var e model.GarageSaleEvent
    var locID, consID sql.NullInt64
    err := row.Scan(&e.ID, &locID, &e.OwnerID, &consID, &e.Title, &e.StartDate, &e.EndDate)
    if err != nil {
        return model.GarageSaleEvent{}, err
    }
    if locID.Valid {
        v := uint64(locID.Int64)
        e.LocationID = &v
    }
    if consID.Valid {
        v := uint64(consID.Int64)
        e.ConsultantID = &v
    }
    return e, nil
}

const eventColumns = `id, location_id, owner_id, consultant_id, title,
                      DATE_FORMAT(start_date, '%Y-%m-%d'), DATE_FORMAT(end_date, '%Y-%m-%d')`

// GetEventByID returns a single event.  sql.ErrNoRows when absent.
func (r *EventRepo) GetEventByID(ctx context.Context, id uint64) (model.GarageSaleEvent, error) {
    return scanEvent(r.db.QueryRowContext(ctx,
        `SELECT `+eventColumns+` FROM garage_sale_events WHERE id = ?`, id))
}

// MapEvent is an event joined with its location coordinates for the
// public garage sale map.
type MapEvent struct {
    model.GarageSaleEvent
    LocationName string  `json:"location_name"`
    Latitude     float64 `json:"latitude"`
    Longitude    float64 `json:"longitude"`
}

// ListActiveWithCoords returns events whose date range covers the given
// day, at locations that have coordinates.  This feeds the public map.
func (r *EventRepo) ListActiveWithCoords(ctx context.Context, onDate string) ([]MapEvent, error) {
    const q = `SELECT e.id, e.location_id, e.owner_id, e.consultant_id, e.title,
                      DATE_FORMAT(e.start_date, '%Y-%m-%d'), DATE_FORMAT(e.end_date, '%Y-%m-%d'),
                      l.name, l.latitude, l.longitude
               FROM garage_sale_events e
               JOIN locations l ON l.id = e.location_id
               WHERE e.start_date <= ? AND e.end_date >= ?
                 AND l.latitude IS NOT NULL AND l.longitude IS NOT NULL
               ORDER BY e.id`
    rows, err := r.db.QueryContext(ctx, q, onDate, onDate)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]MapEvent, 0)
    for rows.Next() {
        var me MapEvent
        var locID, consID sql.NullInt64
        if err := rows.Scan(&me.ID, &locID, &me.OwnerID, &consID, &me.Title,
            &me.StartDate, &me.EndDate, &me.LocationName, &me.Latitude, &me.Longitude); err != nil {
            return nil, err
        }
        if locID.Valid {
            v := uint64(locID.Int64)
            me.LocationID = &v
        }
        if consID.Valid {
            v := uint64(consID.Int64)
            me.ConsultantID = &v
        }
        out = append(out, me)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListEventsByOwner returns every event created by the given owner.
func (r *EventRepo) ListEventsByOwner(ctx context.Context, ownerID uint64) ([]model.GarageSaleEvent, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+eventColumns+` FROM garage_sale_events WHERE owner_id = ? ORDER BY id`, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.GarageSaleEvent, 0)
    for rows.Next() {
        e, err := scanEvent(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// CreateItem inserts a sale item and populates the generated ID.
func (r *EventRepo) CreateItem(ctx context.Context, it *model.SaleItem) error {
    const q = `INSERT INTO sale_items (event_id, title, description, price_cents, quantity_available, is_listed)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        it.EventID, it.Title, it.Description, it.PriceCents, it.QuantityAvailable, it.IsListed)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    it.ID = uint64(id)
    return nil
}

func scanItem(row interface{ Scan(...interface{}) error }) (model.SaleItem, error) {
    var it model.SaleItem
    err := row.Scan(&it.ID, &it.EventID, &it.Title, &it.Description,
        &it.PriceCents, &it.QuantityAvailable, &it.IsListed, &it.CreatedAt)
    if err != nil {
        return model.SaleItem{}, err
    }
    return it, nil
}

const itemColumns = `id, event_id, title, description, price_cents, quantity_available, is_listed, created_at`

// GetItemByID returns a single sale item.  sql.ErrNoRows when absent.
func (r *EventRepo) GetItemByID(ctx context.Context, id uint64) (model.SaleItem, error) {
    return scanItem(r.db.QueryRowContext(ctx,
        `SELECT `+itemColumns+` FROM sale_items WHERE id = ?`, id))
}

// ListItems returns the items of an event.  When listedOnly is set,
// delisted items are filtered out (the customer-facing view).
func (r *EventRepo) ListItems(ctx context.Context, eventID uint64, listedOnly bool) ([]model.SaleItem, error) {
    q := `SELECT ` + itemColumns + ` FROM sale_items WHERE event_id = ?`
    if listedOnly {
        q += ` AND is_listed = 1`
    }
    q += ` ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.SaleItem, 0)
    for rows.Next() {
        it, err := scanItem(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, it)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// UpdateItem replaces the editable fields of a sale item.  Confirmed
// reservation lines are unaffected because they snapshot the price at
// confirmation time.
func (r *EventRepo) UpdateItem(ctx context.Context, it *model.SaleItem) error {
    const q = `UPDATE sale_items
               SET title = ?, description = ?, price_cents = ?, quantity_available = ?, is_listed = ?
               WHERE id = ?`
    _, err := r.db.ExecContext(ctx, q,
        it.Title, it.Description, it.PriceCents, it.QuantityAvailable, it.IsListed, it.ID)
    return err
}

// DeleteItem removes a sale item unless a confirmed reservation still
// references it, in which case ErrConflict is returned and the item
// should be delisted instead.  Draft lines pointing at the item are
// dropped so carts do not keep phantom entries.
func (r *EventRepo) DeleteItem(ctx context.Context, itemID uint64) error {
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

    var referenced bool
    err = tx.QueryRowContext(ctx,
        `SELECT EXISTS(
             SELECT 1 FROM reservation_items ri
             JOIN reservations res ON res.id = ri.reservation_id
             WHERE ri.item_id = ? AND res.status <> 'DRAFT')`,
        itemID).Scan(&referenced)
    if err != nil {
        return err
    }
    if referenced {
        return ErrConflict
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_items WHERE item_id = ?`, itemID); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE id = ?`, itemID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
