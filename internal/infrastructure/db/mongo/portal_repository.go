package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartmed/doctor-portal/internal/core/domain"
	"github.com/smartmed/doctor-portal/internal/core/ports"
)

const (
	collectionPatients     = "patients"
	collectionAlerts       = "alerts"
	collectionAlertReads   = "alert_reads"
	collectionAppointments = "appointments"
)

type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(collectionPatients)}
}

// List applies a case-insensitive substring search over name and email and
// an exact status match.
func (r *PatientRepository) List(ctx context.Context, f ports.PatientFilter) ([]domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": containsRegex(f.Search)},
			bson.M{"email": containsRegex(f.Search)},
		}
	}
	if isSet(f.Status) {
		filter["status"] = f.Status
	}

	var out []domain.Patient
	if err := findAll(ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}), &out); err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return out, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Patient
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

// AlertRepository stores alerts and, separately, which doctor has read which
// alert.
type AlertRepository struct {
	alerts *mongo.Collection
	reads  *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{
		alerts: db.Collection(collectionAlerts),
		reads:  db.Collection(collectionAlertReads),
	}
}

func (r *AlertRepository) List(ctx context.Context, doctorEmail string, f ports.AlertFilter) ([]domain.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if isSet(f.Type) {
		filter["type"] = f.Type
	}

	var alerts []domain.Alert
	if err := findAll(ctx, r.alerts, filter, options.Find().SetSort(bson.D{{Key: "time", Value: -1}}), &alerts); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	read, err := r.readIDs(ctx, doctorEmail)
	if err != nil {
		return nil, err
	}

	out := alerts[:0]
	for _, a := range alerts {
		a.Read = a.Read || read[a.ID]
		switch f.Status {
		case "read":
			if !a.Read {
				continue
			}
		case "unread":
			if a.Read {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *AlertRepository) readIDs(ctx context.Context, doctorEmail string) (map[string]bool, error) {
	var rows []struct {
		AlertID string `bson:"alert_id"`
	}
	if err := findAll(ctx, r.reads, bson.M{"doctor_email": strings.ToLower(doctorEmail)}, nil, &rows); err != nil {
		return nil, fmt.Errorf("list alert reads: %w", err)
	}
	read := make(map[string]bool, len(rows))
	for _, row := range rows {
		read[row.AlertID] = true
	}
	return read, nil
}

func (r *AlertRepository) MarkRead(ctx context.Context, doctorEmail, alertID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.alerts.CountDocuments(ctx, bson.M{"_id": alertID})
	if err != nil {
		return fmt.Errorf("find alert: %w", err)
	}
	if n == 0 {
		return domain.ErrAlertNotFound
	}
	return r.markRead(ctx, strings.ToLower(doctorEmail), alertID)
}

func (r *AlertRepository) MarkAllRead(ctx context.Context, doctorEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := r.alerts.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return fmt.Errorf("list alert ids: %w", err)
	}
	email := strings.ToLower(doctorEmail)
	for _, id := range ids {
		alertID, ok := id.(string)
		if !ok {
			continue
		}
		if err := r.markRead(ctx, email, alertID); err != nil {
			return err
		}
	}
	return nil
}

func (r *AlertRepository) markRead(ctx context.Context, email, alertID string) error {
	key := bson.M{"doctor_email": email, "alert_id": alertID}
	update := bson.M{"$setOnInsert": bson.M{"read_at": time.Now().UTC()}}
	if _, err := r.reads.UpdateOne(ctx, key, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes the alert queries rely on.
func (r *AlertRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.alerts.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}}}); err != nil {
		return err
	}
	_, err := r.reads.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "doctor_email", Value: 1}, {Key: "alert_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

func (r *AppointmentRepository) List(ctx context.Context, f ports.AppointmentFilter) ([]domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"title": containsRegex(f.Search)},
			bson.M{"patient_name": containsRegex(f.Search)},
		}
	}
	if isSet(f.Status) {
		filter["status"] = f.Status
	}

	var out []domain.Appointment
	if err := findAll(ctx, r.col, filter, options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}}), &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

// SeedPortal fills the portal collections that are still empty.
func SeedPortal(ctx context.Context, db *mongo.Database, patients []domain.Patient, alerts []domain.Alert, appointments []domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	seeds := []struct {
		name string
		docs []interface{}
	}{
		{collectionPatients, toDocs(patients)},
		{collectionAlerts, toDocs(alerts)},
		{collectionAppointments, toDocs(appointments)},
	}
	for _, s := range seeds {
		col := db.Collection(s.name)
		n, err := col.EstimatedDocumentCount(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", s.name, err)
		}
		if n > 0 || len(s.docs) == 0 {
			continue
		}
		if _, err := col.InsertMany(ctx, s.docs); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}
	return nil
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}

func findAll(ctx context.Context, col *mongo.Collection, filter bson.M, opts *options.FindOptions, out interface{}) error {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := col.Find(ctx, filter, findOpts...)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func isSet(option string) bool {
	return option != "" && option != ports.FilterAll
}
