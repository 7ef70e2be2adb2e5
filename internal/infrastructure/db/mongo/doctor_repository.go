package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smartmed/doctor-portal/internal/core/domain"
)

const doctorCollection = "doctors"

type DoctorRepository struct {
	coll *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{coll: db.Collection(doctorCollection)}
}

type mongoDoctor struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	FirstName           string             `bson:"first_name"`
	LastName            string             `bson:"last_name"`
	Email               string             `bson:"email"`
	Phone               string             `bson:"phone,omitempty"`
	Country             string             `bson:"country,omitempty"`
	Specialization      string             `bson:"specialization"`
	LicenseNumber       string             `bson:"license_number,omitempty"`
	HospitalAffiliation string             `bson:"hospital_affiliation,omitempty"`
	PasswordHash        string             `bson:"password_hash"`
	CreatedAt           int64              `bson:"created_at"`
	UpdatedAt           int64              `bson:"updated_at"`
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoDoctor{
		FirstName:           doctor.FirstName,
		LastName:            doctor.LastName,
		Email:               doctor.Email,
		Phone:               doctor.Phone,
		Country:             doctor.Country,
		Specialization:      doctor.Specialization,
		LicenseNumber:       doctor.LicenseNumber,
		HospitalAffiliation: doctor.HospitalAffiliation,
		PasswordHash:        doctor.PasswordHash,
		CreatedAt:           doctor.CreatedAt.Unix(),
		UpdatedAt:           doctor.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDoctorExists
		}
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

func (r *DoctorRepository) FindByEmail(ctx context.Context, email string) (*domain.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDoctor
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return md.toDomain(), nil
}

// EnsureIndexes makes email unique so duplicate sign-ups fail with a conflict.
func (r *DoctorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (md mongoDoctor) toDomain() *domain.Doctor {
	return &domain.Doctor{
		ID:                  md.ID.Hex(),
		FirstName:           md.FirstName,
		LastName:            md.LastName,
		Email:               md.Email,
		Phone:               md.Phone,
		Country:             md.Country,
		Specialization:      md.Specialization,
		LicenseNumber:       md.LicenseNumber,
		HospitalAffiliation: md.HospitalAffiliation,
		PasswordHash:        md.PasswordHash,
		CreatedAt:           unixToTime(md.CreatedAt),
		UpdatedAt:           unixToTime(md.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
