package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicsuite/clinic-portal/internal/core/domain"
)

type MongoInvitationRepository struct {
	coll *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *MongoInvitationRepository {
	return &MongoInvitationRepository{coll: db.Collection(invitationsCollection)}
}

type mongoInvitation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	InvitedBy string             `bson:"invited_by"`
	Status    string             `bson:"status"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mi *mongoInvitation) toDomain() *domain.DoctorInvitation {
	return &domain.DoctorInvitation{
		ID:        mi.ID.Hex(),
		Email:     mi.Email,
		InvitedBy: mi.InvitedBy,
		Status:    domain.InvitationStatus(mi.Status),
		CreatedAt: unixToTime(mi.CreatedAt),
		UpdatedAt: unixToTime(mi.UpdatedAt),
	}
}

func (r *MongoInvitationRepository) Create(ctx context.Context, inv *domain.DoctorInvitation) (*domain.DoctorInvitation, error) {
	doc := mongoInvitation{
		Email:     inv.Email,
		InvitedBy: inv.InvitedBy,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt.Unix(),
		UpdatedAt: inv.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrInvitationExists
		}
		return nil, fmt.Errorf("insert invitation: %w", err)
	}
	return r.FindByEmail(ctx, inv.Email)
}

func (r *MongoInvitationRepository) FindByEmail(ctx context.Context, email string) (*domain.DoctorInvitation, error) {
	var mi mongoInvitation
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *MongoInvitationRepository) UpdateStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvitationNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC().Unix()},
	})
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *MongoInvitationRepository) List(ctx context.Context) ([]*domain.DoctorInvitation, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.DoctorInvitation
	for cur.Next(ctx) {
		var mi mongoInvitation
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode invitation: %w", err)
		}
		out = append(out, mi.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return out, nil
}
