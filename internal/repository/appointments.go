package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

const appointmentColumns = `
	a.id,
	a.station_id,
	a.start_at,
	a.end_at,
	a.service_type,
	a.customer_id,
	COALESCE(c.name, ''),
	COALESCE(c.phone, ''),
	COALESCE(c.email, ''),
	COALESCE(d.name, ''),
	a.treatment_id,
	a.is_personal,
	a.personal_name,
	a.description,
	a.hour_selection,
	a.is_trial,
	a.created_at,
	a.version
`

const appointmentJoins = `
	FROM appointments a
	LEFT JOIN customers c ON a.customer_id = c.id
	LEFT JOIN dogs d ON a.dog_id = d.id
`

func appointmentDst(a *domain.Appointment) []any {
	return []any{
		&a.ID,
		&a.StationID,
		&a.StartAt,
		&a.EndAt,
		&a.ServiceType,
		&a.CustomerID,
		&a.CustomerName,
		&a.CustomerPhone,
		&a.CustomerEmail,
		&a.DogName,
		&a.TreatmentID,
		&a.IsPersonal,
		&a.PersonalName,
		&a.Description,
		&a.HourSelection,
		&a.IsTrial,
		&a.CreatedAt,
		&a.Version,
	}
}

// GetSchedule 返回 date 所在那一天（按 date 的时区计算）的工位和预约
func (r *Repository) GetSchedule(ctx context.Context, date time.Time, filter domain.ScheduleFilter) (*domain.Schedule, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	s := &domain.Schedule{
		Date:         domain.DateKey(dayStart),
		Filter:       filter,
		Stations:     make([]domain.Station, 0),
		Appointments: make([]domain.Appointment, 0),
	}

	query := `
		SELECT id, name, is_active, service_type, display_order, created_at, version
		FROM stations
		WHERE is_active AND ($1 = 'all' OR service_type = $1)
		ORDER BY display_order, name
	`
	rows, err := r.dbpool.QueryContext(ctx, query, string(filter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var st domain.Station
		dst := []any{&st.ID, &st.Name, &st.IsActive, &st.ServiceType, &st.DisplayOrder, &st.CreatedAt, &st.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		s.Stations = append(s.Stations, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `SELECT ` + appointmentColumns + appointmentJoins + `
		WHERE a.start_at >= $1 AND a.start_at < $2 AND ($3 = 'all' OR a.service_type = $3)
		ORDER BY a.start_at, a.id
	`
	apptRows, err := r.dbpool.QueryContext(ctx, query, dayStart, dayEnd, string(filter))
	if err != nil {
		return nil, err
	}
	defer apptRows.Close()

	for apptRows.Next() {
		var a domain.Appointment
		if err := apptRows.Scan(appointmentDst(&a)...); err != nil {
			return nil, err
		}
		s.Appointments = append(s.Appointments, a)
	}
	if err := apptRows.Err(); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *Repository) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + appointmentColumns + appointmentJoins + ` WHERE a.id = $1`

	a := &domain.Appointment{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(appointmentDst(a)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}

	return a, nil
}

// MoveAppointment 只有版本号和旧的工位、时间都与数据库一致时才会更新，服务类型跟随新工位
func (r *Repository) MoveAppointment(ctx context.Context, cmd *domain.MoveCommand) (int32, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE appointments a
		SET
			station_id = s.id,
			service_type = s.service_type,
			start_at = $2,
			end_at = $3,
			hour_selection = COALESCE($4, a.hour_selection),
			is_trial = COALESCE($5, a.is_trial),
			version = a.version + 1
		FROM stations s
		WHERE s.id = $1 AND a.id = $6 AND a.version = $7 AND a.station_id = $8 AND a.start_at = $9 AND a.end_at = $10
		RETURNING a.version
	`
	args := []any{
		cmd.NewStationID,
		cmd.NewStartAt,
		cmd.NewEndAt,
		cmd.HourSelection,
		cmd.IsTrial,
		cmd.AppointmentID,
		cmd.ExpectedVersion,
		cmd.OldStationID,
		cmd.OldStartAt,
		cmd.OldEndAt,
	}

	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, r.appointmentWriteError(ctx, cmd.AppointmentID, err)
		}
		exists, err := r.stationExists(ctx, cmd.NewStationID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, domain.ErrStationNotFound
		}
		return 0, r.appointmentWriteError(ctx, cmd.AppointmentID, sql.ErrNoRows)
	}

	return version, nil
}

// UpdatePersonalAppointment 服务类型跟随新工位
func (r *Repository) UpdatePersonalAppointment(ctx context.Context, cmd *domain.PersonalCommand) (int32, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE appointments a
		SET
			personal_name = $1,
			description = $2,
			station_id = s.id,
			service_type = s.service_type,
			start_at = $3,
			end_at = $4,
			version = a.version + 1
		FROM stations s
		WHERE s.id = $5 AND a.id = $6 AND a.version = $7 AND a.is_personal
		RETURNING a.version
	`
	args := []any{cmd.Name, cmd.Description, cmd.StartAt, cmd.EndAt, cmd.StationID, cmd.AppointmentID, cmd.ExpectedVersion}

	var version int32
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&version); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		exists, err := r.stationExists(ctx, cmd.StationID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, domain.ErrStationNotFound
		}
		return 0, r.appointmentWriteError(ctx, cmd.AppointmentID, sql.ErrNoRows)
	}

	return version, nil
}

func (r *Repository) CreatePersonalAppointment(ctx context.Context, appt *domain.Appointment) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO appointments (station_id, start_at, end_at, service_type, is_personal, personal_name, description)
		SELECT s.id, $2, $3, s.service_type, TRUE, $4, $5
		FROM stations s WHERE s.id = $1
		RETURNING id, service_type, created_at, version
	`
	args := []any{appt.StationID, appt.StartAt, appt.EndAt, appt.PersonalName, appt.Description}
	dst := []any{&appt.ID, &appt.ServiceType, &appt.CreatedAt, &appt.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrStationNotFound
		}
		return err
	}

	return nil
}

func (r *Repository) DeleteAppointment(ctx context.Context, id string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAppointmentNotFound
	}

	return nil
}

// appointmentWriteError 把条件更新失败的原因区分为不存在、已被修改和工位不存在
func (r *Repository) appointmentWriteError(ctx context.Context, id string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "appointments_station_id_fkey":
			return domain.ErrStationNotFound
		default:
			return err
		}
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrAppointmentNotFound
	}
	return domain.ErrStaleWrite
}

func (r *Repository) stationExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM stations WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateCustomerAppointment 插入一个客户预约，服务类型取自工位
func (r *Repository) CreateCustomerAppointment(ctx context.Context, appt *domain.Appointment, dogID *string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO appointments (station_id, start_at, end_at, service_type, customer_id, dog_id, hour_selection, is_trial)
		SELECT s.id, $2, $3, s.service_type, $4, $5, $6, $7
		FROM stations s WHERE s.id = $1
		RETURNING id, service_type, created_at, version
	`
	args := []any{appt.StationID, appt.StartAt, appt.EndAt, appt.CustomerID, dogID, appt.HourSelection, appt.IsTrial}
	dst := []any{&appt.ID, &appt.ServiceType, &appt.CreatedAt, &appt.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrStationNotFound
		}
		return err
	}

	return nil
}
