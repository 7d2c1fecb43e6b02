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

	"github.com/skroflin/workforce-api/internal/core/domain"
)

const collectionDepartments = "departments"

type DepartmentRepository struct {
	col *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{col: db.Collection(collectionDepartments)}
}

type departmentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Location  string             `bson:"location"`
	Active    bool               `bson:"active"`
	CompanyID string             `bson:"company_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d departmentDoc) toDomain() *domain.Department {
	return &domain.Department{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Location:  d.Location,
		Active:    d.Active,
		CompanyID: d.CompanyID,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *DepartmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	})
	return err
}

func (r *DepartmentRepository) Create(ctx context.Context, d *domain.Department) (*domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, departmentDoc{
		Name:      d.Name,
		Location:  d.Location,
		Active:    d.Active,
		CompanyID: d.CompanyID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert department: %w", err)
	}

	created := *d
	created.ID = insertedID(res)
	return &created, nil
}

func (r *DepartmentRepository) Get(ctx context.Context, id string) (*domain.Department, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc departmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DepartmentRepository) List(ctx context.Context, f domain.OrgFilter) ([]domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.NameContains != "" {
		filter["name"] = containsFold(f.NameContains)
	}
	if f.LocationContains != "" {
		filter["location"] = containsFold(f.LocationContains)
	}
	if f.Active != nil {
		filter["active"] = *f.Active
	}
	if f.CompanyID != "" {
		filter["company_id"] = f.CompanyID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []departmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode departments: %w", err)
	}

	out := make([]domain.Department, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *domain.Department) (*domain.Department, error) {
	oid, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       d.Name,
		"location":   d.Location,
		"active":     d.Active,
		"company_id": d.CompanyID,
		"updated_at": d.UpdatedAt,
	}})
	if err != nil {
		return nil, fmt.Errorf("update department: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	updated := *d
	return &updated, nil
}

// SoftDelete deactivates the department.
func (r *DepartmentRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.col, id, "active", false, at)
}
