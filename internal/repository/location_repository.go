package repository

import (
    "context"
    "database/sql"

    "github.com/localmart/local-services/internal/model"
)

// LocationRepo manages physical locations and the consultants working
// at them.  A location may serve physio bookings, garage sales or both;
// the service flags drive which public map it appears on.
type LocationRepo struct {
    db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// Create inserts a location and populates the generated ID.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
    const q = `INSERT INTO locations (owner_id, name, latitude, longitude, room_count, is_physio, is_garage_sale)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        l.OwnerID, l.Name, l.Latitude, l.Longitude, l.RoomCount, l.IsPhysio, l.IsGarageSale)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    l.ID = uint64(id)
    return nil
}

func scanLocation(row interface{ Scan(...interface{}) error }) (model.Location, error) {
    var l model.Location
    var ownerID sql.NullInt64
    var lat, lng sql.NullFloat64
    err := row.Scan(&l.ID, &ownerID, &l.Name, &lat, &lng,
        &l.RoomCount, &l.IsPhysio, &l.IsGarageSale, &l.CreatedAt)
    if err != nil {
        return model.Location{}, err
    }
    if ownerID.Valid {
        v := uint64(ownerID.Int64)
        l.OwnerID = &v
    }
    if lat.Valid {
        l.Latitude = &lat.Float64
    }
    if lng.Valid {
        l.Longitude = &lng.Float64
    }
    return l, nil
}

const locationColumns = `id, owner_id, name, latitude, longitude, room_count, is_physio, is_garage_sale, created_at`

// GetByID returns a single location.  sql.ErrNoRows when absent.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (model.Location, error) {
    return scanLocation(r.db.QueryRowContext(ctx,
        `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id))
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *LocationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Location, error) {
    return scanLocation(tx.QueryRowContext(ctx,
        `SELECT `+locationColumns+` FROM locations WHERE id = ?`, id))
}

// ListPhysio returns locations offering physio bookings with
// coordinates set, for the public map.
func (r *LocationRepo) ListPhysio(ctx context.Context) ([]model.Location, error) {
    return r.list(ctx, `SELECT `+locationColumns+` FROM locations
        WHERE is_physio = 1 AND latitude IS NOT NULL AND longitude IS NOT NULL
        ORDER BY id`)
}

// ListByOwner returns every location belonging to the given owner.
func (r *LocationRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Location, error) {
    return r.list(ctx, `SELECT `+locationColumns+` FROM locations WHERE owner_id = ? ORDER BY id`, ownerID)
}

func (r *LocationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Location, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Location, 0)
    for rows.Next() {
        l, err := scanLocation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, l)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// LinkConsultant associates a consultant with a location so they show
// up as bookable there.  Linking twice is a conflict.
func (r *LocationRepo) LinkConsultant(ctx context.Context, locationID, consultantID uint64) error {
    _, err := r.db.ExecContext(ctx,
        `INSERT INTO location_consultants (location_id, consultant_id) VALUES (?, ?)`,
        locationID, consultantID)
    if err != nil {
        if isDuplicateEntry(err) {
            return ErrConflict
        }
        return err
    }
    return nil
}

// ConsultantOption is a bookable consultant row for the slot picker.
type ConsultantOption struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Phone string `json:"phone"`
}

// AvailableConsultants returns the consultants linked to the location
// who do not already hold an ACCEPTED appointment at the given slot.
// Pending requests do not block availability; only accepted bookings
// consume a consultant's time.
func (r *LocationRepo) AvailableConsultants(ctx context.Context, locationID uint64, date, timeOfDay string) ([]ConsultantOption, error) {
    const q = `SELECT u.id, u.email, u.phone
               FROM location_consultants lc
               JOIN users u ON u.id = lc.consultant_id
               WHERE lc.location_id = ?
                 AND u.is_active = 1
                 AND NOT EXISTS (
                     SELECT 1 FROM appointments a
                     WHERE a.consultant_id = u.id
                       AND a.date = ? AND a.time = ?
                       AND a.status = 'ACCEPTED')
               ORDER BY u.id`
    rows, err := r.db.QueryContext(ctx, q, locationID, date, timeOfDay)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ConsultantOption, 0)
    for rows.Next() {
        var c ConsultantOption
        if err := rows.Scan(&c.ID, &c.Email, &c.Phone); err != nil {
            return nil, err
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
