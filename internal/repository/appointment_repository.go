package repository

import (
    "context"
    "crypto/rand"
    "database/sql"
    "encoding/hex"
    "time"

    "github.com/localmart/local-services/internal/booking"
    "github.com/localmart/local-services/internal/model"
)

// AppointmentRepo provides CRUD operations for physio appointments.
// Appointments are never deleted; decided rows stay behind for audit.
// All conflict-sensitive reads have ...Tx variants so handlers can run
// the pre-check, the room allocation and the status transition inside
// one transaction.  Timestamps are stored in UTC; dates and times use
// their wire formats (YYYY-MM-DD, HH:MM:SS).
type AppointmentRepo struct {
    db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions.
func (r *AppointmentRepo) DB() *sql.DB { return r.db }

// newActionToken generates the random hexadecimal credential embedded
// in consultant accept/decline links.  crypto/rand keeps the token
// unguessable.
func newActionToken() (string, error) {
    b := make([]byte, 32)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}

// Create inserts a PENDING appointment with a fresh action token valid
// for the default 48 hour window.  The generated ID, token and expiry
// are populated on the passed record.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
    token, err := newActionToken()
    if err != nil {
        return err
    }
    exp := time.Now().UTC().Add(booking.TokenValidityHours * time.Hour)
    const q = `INSERT INTO appointments
               (location_id, consultant_id, created_by, date, time, status, action_token, action_token_expires_at)
               VALUES (?, ?, ?, ?, ?, 'PENDING', ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        a.LocationID, a.ConsultantID, a.CreatedBy, a.Date, a.Time,
        token, exp.Format("2006-01-02 15:04:05"))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    a.ID = uint64(id)
    a.Status = model.AppointmentPending
    a.ActionToken = token
    a.TokenExpires = &exp
    return nil
}

// RefreshActionToken replaces the appointment's token and restarts the
// 48 hour validity window.  It returns the new token and expiry.
func (r *AppointmentRepo) RefreshActionToken(ctx context.Context, id uint64) (string, time.Time, error) {
    token, err := newActionToken()
    if err != nil {
        return "", time.Time{}, err
    }
    exp := time.Now().UTC().Add(booking.TokenValidityHours * time.Hour)
    _, err = r.db.ExecContext(ctx,
        `UPDATE appointments SET action_token = ?, action_token_expires_at = ? WHERE id = ?`,
        token, exp.Format("2006-01-02 15:04:05"), id)
    if err != nil {
        return "", time.Time{}, err
    }
    return token, exp, nil
}

const apptColumns = `id, location_id, consultant_id, created_by,
                     DATE_FORMAT(date, '%Y-%m-%d'), TIME_FORMAT(time, '%H:%i:%s'),
                     status, room_number, action_token, action_token_expires_at, created_at`

func scanAppointment(row interface{ Scan(...interface{}) error }) (model.Appointment, error) {
    var a model.Appointment
    var locID, consID, createdBy sql.NullInt64
    var room sql.NullInt32
    var tokenExp sql.NullTime
    err := row.Scan(&a.ID, &locID, &consID, &createdBy, &a.Date, &a.Time,
        &a.Status, &room, &a.ActionToken, &tokenExp, &a.CreatedAt)
    if err != nil {
        return model.Appointment{}, err
    }
    if locID.Valid {
        v := uint64(locID.Int64)
        a.LocationID = &v
    }
    if consID.Valid {
        v := uint64(consID.Int64)
        a.ConsultantID = &v
    }
    if createdBy.Valid {
        v := uint64(createdBy.Int64)
        a.CreatedBy = &v
    }
    if room.Valid {
        v := uint32(room.Int32)
        a.RoomNumber = &v
    }
    if tokenExp.Valid {
        t := tokenExp.Time.UTC()
        a.TokenExpires = &t
    }
    return a, nil
}

// GetByID returns a single appointment.  sql.ErrNoRows when absent.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (model.Appointment, error) {
    return scanAppointment(r.db.QueryRowContext(ctx,
        `SELECT `+apptColumns+` FROM appointments WHERE id = ?`, id))
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *AppointmentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Appointment, error) {
    return scanAppointment(tx.QueryRowContext(ctx,
        `SELECT `+apptColumns+` FROM appointments WHERE id = ?`, id))
}

// GetByTokenTx looks an appointment up by its action token inside an
// existing transaction.  sql.ErrNoRows when no appointment carries the
// token.
func (r *AppointmentRepo) GetByTokenTx(ctx context.Context, tx *sql.Tx, token string) (model.Appointment, error) {
    return scanAppointment(tx.QueryRowContext(ctx,
        `SELECT `+apptColumns+` FROM appointments WHERE action_token = ?`, token))
}

// ConsultantBusyTx reports whether the consultant already has an
// ACCEPTED appointment at the given date/time, excluding the
// appointment under consideration.  Must run in the same transaction
// as the transition consuming the answer.
func (r *AppointmentRepo) ConsultantBusyTx(ctx context.Context, tx *sql.Tx, consultantID uint64, date, timeOfDay string, excludeID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM appointments
                   WHERE consultant_id = ? AND date = ? AND time = ?
                     AND status = 'ACCEPTED' AND id <> ?)`
    var busy bool
    err := tx.QueryRowContext(ctx, q, consultantID, date, timeOfDay, excludeID).Scan(&busy)
    return busy, err
}

// TakenRoomsTx returns the room numbers held by ACCEPTED appointments
// sharing (location, date, time), excluding the appointment under
// consideration.  The result feeds booking.PickRoom and must be read
// in the transaction that applies the allocation.
func (r *AppointmentRepo) TakenRoomsTx(ctx context.Context, tx *sql.Tx, locationID uint64, date, timeOfDay string, excludeID uint64) ([]uint32, error) {
    const q = `SELECT room_number FROM appointments
               WHERE location_id = ? AND date = ? AND time = ?
                 AND status = 'ACCEPTED' AND room_number IS NOT NULL AND id <> ?`
    rows, err := tx.QueryContext(ctx, q, locationID, date, timeOfDay, excludeID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var taken []uint32
    for rows.Next() {
        var room uint32
        if err := rows.Scan(&room); err != nil {
            return nil, err
        }
        taken = append(taken, room)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return taken, nil
}

// AcceptTx transitions a PENDING appointment to ACCEPTED, recording the
// allocated room (nil when the appointment has no location).  The
// UPDATE is guarded on status = 'PENDING': zero affected rows means a
// concurrent actor decided first and ErrAlreadyDecided is returned.
// The unique indexes on accepted consultant/room keys are the backstop
// for races that slip past the pre-checks; their violation surfaces as
// ErrSlotTaken so callers can fall back to the auto-decline outcome.
func (r *AppointmentRepo) AcceptTx(ctx context.Context, tx *sql.Tx, id uint64, room *uint32) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE appointments SET status = 'ACCEPTED', room_number = ? WHERE id = ? AND status = 'PENDING'`,
        room, id)
    if err != nil {
        if isDuplicateEntry(err) {
            return ErrSlotTaken
        }
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrAlreadyDecided
    }
    return nil
}

// DeclineTx transitions a PENDING appointment to DECLINED.  Room
// assignments are never touched.  Zero affected rows means the
// appointment was already decided.
func (r *AppointmentRepo) DeclineTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE appointments SET status = 'DECLINED' WHERE id = ? AND status = 'PENDING'`,
        id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrAlreadyDecided
    }
    return nil
}

// ListByConsultant returns the consultant's appointments ordered by
// date and time.  When status is non-empty only matching rows are
// returned.
func (r *AppointmentRepo) ListByConsultant(ctx context.Context, consultantID uint64, status string) ([]model.Appointment, error) {
    q := `SELECT ` + apptColumns + ` FROM appointments WHERE consultant_id = ?`
    args := []interface{}{consultantID}
    if status != "" {
        q += ` AND status = ?`
        args = append(args, status)
    }
    q += ` ORDER BY date, time, id`
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Appointment, 0)
    for rows.Next() {
        a, err := scanAppointment(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, a)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// OwnerAppointment is an appointment joined with its location name for
// the owner overview.
type OwnerAppointment struct {
    model.Appointment
    LocationName string `json:"location_name"`
}

// ListForOwner returns every appointment at locations owned by the
// given user, newest slots first.
func (r *AppointmentRepo) ListForOwner(ctx context.Context, ownerID uint64) ([]OwnerAppointment, error) {
    const q = `SELECT a.id, a.location_id, a.consultant_id, a.created_by,
                      DATE_FORMAT(a.date, '%Y-%m-%d'), TIME_FORMAT(a.time, '%H:%i:%s'),
                      a.status, a.room_number, a.action_token, a.action_token_expires_at, a.created_at,
                      l.name
               FROM appointments a
               JOIN locations l ON l.id = a.location_id
               WHERE l.owner_id = ?
               ORDER BY a.date DESC, a.time DESC, a.id DESC`
    rows, err := r.db.QueryContext(ctx, q, ownerID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]OwnerAppointment, 0)
    for rows.Next() {
        var oa OwnerAppointment
        var locID, consID, createdBy sql.NullInt64
        var room sql.NullInt32
        var tokenExp sql.NullTime
        if err := rows.Scan(&oa.ID, &locID, &consID, &createdBy, &oa.Date, &oa.Time,
            &oa.Status, &room, &oa.ActionToken, &tokenExp, &oa.CreatedAt, &oa.LocationName); err != nil {
            return nil, err
        }
        if locID.Valid {
            v := uint64(locID.Int64)
            oa.LocationID = &v
        }
        if consID.Valid {
            v := uint64(consID.Int64)
            oa.ConsultantID = &v
        }
        if createdBy.Valid {
            v := uint64(createdBy.Int64)
            oa.CreatedBy = &v
        }
        if room.Valid {
            v := uint32(room.Int32)
            oa.RoomNumber = &v
        }
        if tokenExp.Valid {
            t := tokenExp.Time.UTC()
            oa.TokenExpires = &t
        }
        out = append(out, oa)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
