package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skroflin/workforce-api/internal/core/domain"
)

const collectionEmployees = "employees"

type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

// Salaries are stored as Decimal128 so no float rounding creeps in.
type employeeDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Surname      string               `bson:"surname"`
	Salary       primitive.Decimal128 `bson:"salary"`
	DateOfBirth  time.Time            `bson:"date_of_birth"`
	StartDate    time.Time            `bson:"start_date"`
	Employed     bool                 `bson:"employed"`
	DepartmentID string               `bson:"department_id"`
	CompanyID    string               `bson:"company_id"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode salary %s: %w", d, err)
	}
	return v, nil
}

func (d employeeDoc) toDomain() (*domain.Employee, error) {
	salary, err := decimal.NewFromString(d.Salary.String())
	if err != nil {
		return nil, fmt.Errorf("decode salary of employee %s: %w", d.ID.Hex(), err)
	}
	return &domain.Employee{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Surname:      d.Surname,
		Salary:       salary,
		DateOfBirth:  d.DateOfBirth.UTC(),
		StartDate:    d.StartDate.UTC(),
		Employed:     d.Employed,
		DepartmentID: d.DepartmentID,
		CompanyID:    d.CompanyID,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "company_id", Value: 1}}},
		{Keys: bson.D{{Key: "department_id", Value: 1}}},
		{Keys: bson.D{{Key: "surname", Value: 1}, {Key: "name", Value: 1}}},
	})
	return err
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	salary, err := toDecimal128(e.Salary)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, employeeDoc{
		Name:         e.Name,
		Surname:      e.Surname,
		Salary:       salary,
		DateOfBirth:  e.DateOfBirth,
		StartDate:    e.StartDate,
		Employed:     e.Employed,
		DepartmentID: e.DepartmentID,
		CompanyID:    e.CompanyID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}

	created := *e
	created.ID = insertedID(res)
	return &created, nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc employeeDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return doc.toDomain()
}

// List matches NameContains against both name and surname.
func (r *EmployeeRepository) List(ctx context.Context, f domain.OrgFilter) ([]domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.NameContains != "" {
		filter["$or"] = bson.A{
			bson.M{"name": containsFold(f.NameContains)},
			bson.M{"surname": containsFold(f.NameContains)},
		}
	}
	if f.Active != nil {
		filter["employed"] = *f.Active
	}
	if started := startRange(f); len(started) > 0 {
		filter["start_date"] = started
	}
	if f.CompanyID != "" {
		filter["company_id"] = f.CompanyID
	}

	opts := options.Find().SetSort(bson.D{{Key: "surname", Value: 1}, {Key: "name", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer cur.Close(ctx)

	var docs []employeeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	out := make([]domain.Employee, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func startRange(f domain.OrgFilter) bson.M {
	r := bson.M{}
	if !f.StartedFrom.IsZero() {
		r["$gte"] = f.StartedFrom.UTC()
	}
	if !f.StartedTo.IsZero() {
		r["$lte"] = f.StartedTo.UTC()
	}
	return r
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	oid, err := parseID(e.ID)
	if err != nil {
		return nil, err
	}
	salary, err := toDecimal128(e.Salary)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":          e.Name,
		"surname":       e.Surname,
		"salary":        salary,
		"date_of_birth": e.DateOfBirth,
		"start_date":    e.StartDate,
		"employed":      e.Employed,
		"department_id": e.DepartmentID,
		"company_id":    e.CompanyID,
		"updated_at":    e.UpdatedAt,
	}})
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}

	updated := *e
	return &updated, nil
}

// SoftDelete marks the employee as no longer employed.
func (r *EmployeeRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.col, id, "employed", false, at)
}
