package repository

import (
	"context"
	"regexp"
	"time"

	"campus-canteen/database"
	"campus-canteen/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	foodSeq      = "food"
	orderSeq     = "orders"
	orderItemSeq = "order_items"
)

// MongoStore implements Store on top of MongoDB collections.
type MongoStore struct {
	foods  *mongo.Collection
	orders *mongo.Collection
	items  *mongo.Collection
	users  *mongo.Collection
	seq    *database.Sequence
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		foods:  db.Collection(database.FoodCollection),
		orders: db.Collection(database.OrderCollection),
		items:  db.Collection(database.OrderItemCollection),
		users:  db.Collection(database.UserCollection),
		seq:    database.NewSequence(db),
	}
}

// Orders exposes the orders collection to the change-stream watcher.
func (s *MongoStore) Orders() *mongo.Collection { return s.orders }

func (s *MongoStore) ListFoods(ctx context.Context, f FoodFilter) ([]models.Food, error) {
	filter := bson.M{}
	if f.OnlyAvailable || f.Availability == "available" {
		filter["available"] = true
	} else if f.Availability == "unavailable" {
		filter["available"] = false
	}
	if f.Category != "" && f.Category != "all" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := s.foods.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list food")
	}
	foods := []models.Food{}
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, errors.Wrap(err, "decode food")
	}
	return foods, nil
}

func (s *MongoStore) GetFood(ctx context.Context, id int64) (*models.Food, error) {
	var food models.Food
	err := s.foods.FindOne(ctx, bson.M{"id": id}).Decode(&food)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get food %d", id)
	}
	return &food, nil
}

func (s *MongoStore) CreateFood(ctx context.Context, food *models.Food) error {
	id, err := s.seq.Next(ctx, foodSeq)
	if err != nil {
		return errors.Wrap(err, "next food id")
	}
	now := time.Now().UTC()
	food.ID = id
	food.CreatedAt = now
	food.UpdatedAt = now
	if _, err := s.foods.InsertOne(ctx, food); err != nil {
		return errors.Wrap(err, "insert food")
	}
	return nil
}

func (s *MongoStore) UpdateFood(ctx context.Context, id int64, food models.Food) (*models.Food, error) {
	updateObj := bson.D{
		{Key: "name", Value: food.Name},
		{Key: "price", Value: food.Price},
		{Key: "description", Value: food.Description},
		{Key: "image", Value: food.Image},
		{Key: "category", Value: food.Category},
		{Key: "available", Value: food.Available},
		{Key: "updated_at", Value: time.Now().UTC()},
	}
	return s.updateFood(ctx, id, updateObj)
}

func (s *MongoStore) SetAvailability(ctx context.Context, id int64, available bool) (*models.Food, error) {
	return s.updateFood(ctx, id, bson.D{
		{Key: "available", Value: available},
		{Key: "updated_at", Value: time.Now().UTC()},
	})
}

func (s *MongoStore) updateFood(ctx context.Context, id int64, set bson.D) (*models.Food, error) {
	var updated models.Food
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.foods.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update food %d", id)
	}
	return &updated, nil
}

func (s *MongoStore) DeleteFood(ctx context.Context, id int64) error {
	res, err := s.foods.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrapf(err, "delete food %d", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateOrder(ctx context.Context, order *models.Order) error {
	id, err := s.seq.Next(ctx, orderSeq)
	if err != nil {
		return errors.Wrap(err, "next order id")
	}
	now := time.Now().UTC()
	order.ID = id
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

func (s *MongoStore) InsertItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	first, err := s.seq.Reserve(ctx, orderItemSeq, len(items))
	if err != nil {
		return errors.Wrap(err, "reserve order item ids")
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(items))
	for i := range items {
		items[i].ID = first + int64(i)
		items[i].CreatedAt = now
		docs = append(docs, items[i])
	}
	if _, err := s.items.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(err, "insert order items")
	}
	return nil
}

// DeleteOrder removes the order and its items.
func (s *MongoStore) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.items.DeleteMany(ctx, bson.M{"order_id": id}); err != nil {
		return errors.Wrapf(err, "delete items of order %d", id)
	}
	res, err := s.orders.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return errors.Wrapf(err, "delete order %d", id)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return &order, nil
}

func (s *MongoStore) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	filter := bson.M{}
	if f.Status != "" && f.Status != "all" {
		filter["status"] = f.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}})
	cursor, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	var all []models.Order
	if err := cursor.All(ctx, &all); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	orders := []models.Order{}
	for _, o := range all {
		if f.Match(o) {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (s *MongoStore) ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lte": to}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list orders in window")
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders in window")
	}
	return orders, nil
}

func (s *MongoStore) ItemsWithFood(ctx context.Context, orderID int64) ([]models.OrderItemWithFood, error) {
	matchStage := bson.D{{Key: "$match", Value: bson.D{{Key: "order_id", Value: orderID}}}}
	lookupStage := bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: database.FoodCollection},
		{Key: "localField", Value: "food_id"},
		{Key: "foreignField", Value: "id"},
		{Key: "as", Value: "food"},
	}}}
	unwindStage := bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$food"},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
	addFieldsStage := bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "food_name", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$food.name", UnknownFood}}}},
	}}}
	projectStage := bson.D{{Key: "$project", Value: bson.D{{Key: "food", Value: 0}, {Key: "_id", Value: 0}}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "id", Value: 1}}}}

	cursor, err := s.items.Aggregate(ctx, mongo.Pipeline{
		matchStage, lookupStage, unwindStage, addFieldsStage, projectStage, sortStage,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "items of order %d", orderID)
	}
	items := []models.OrderItemWithFood{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode order items")
	}
	return items, nil
}

func (s *MongoStore) ItemsForOrders(ctx context.Context, orderIDs []int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	if len(orderIDs) == 0 {
		return items, nil
	}
	cursor, err := s.items.Find(ctx, bson.M{"order_id": bson.M{"$in": orderIDs}})
	if err != nil {
		return nil, errors.Wrap(err, "items for orders")
	}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, errors.Wrap(err, "decode items for orders")
	}
	return items, nil
}

func (s *MongoStore) ItemNamesBetween(ctx context.Context, from, to time.Time, limit int) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.FoodCollection},
			{Key: "localField", Value: "food_id"},
			{Key: "foreignField", Value: "id"},
			{Key: "as", Value: "food"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "name", Value: bson.D{{Key: "$ifNull", Value: bson.A{bson.D{{Key: "$first", Value: "$food.name"}}, UnknownFood}}}},
		}}},
	}
	cursor, err := s.items.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "item names in window")
	}
	var rows []struct {
		Name string `bson:"name"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode item names")
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id int64, status string) (*models.Order, error) {
	var updated models.Order
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	err := s.orders.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "update status of order %d", id)
	}
	return &updated, nil
}

// Reset deletes every order and item and restarts order numbering.
func (s *MongoStore) Reset(ctx context.Context) error {
	if _, err := s.items.DeleteMany(ctx, bson.M{}); err != nil {
		return errors.Wrap(err, "reset order items")
	}
	if _, err := s.orders.DeleteMany(ctx, bson.M{}); err != nil {
		return errors.Wrap(err, "reset orders")
	}
	for _, name := range []string{orderSeq, orderItemSeq} {
		if err := s.seq.Restart(ctx, name); err != nil {
			return errors.Wrapf(err, "restart %s sequence", name)
		}
	}
	return nil
}

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "count users")
	}
	return n, nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &user, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	or := bson.A{bson.M{"email": user.Email}}
	if user.Phone != nil && *user.Phone != "" {
		or = append(or, bson.M{"phone": user.Phone})
	}
	filter := bson.M{"$or": or}
	count, err := s.users.CountDocuments(ctx, filter)
	if err != nil {
		return errors.Wrap(err, "check existing user")
	}
	if count > 0 {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.UserID = user.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (s *MongoStore) UpdateTokens(ctx context.Context, userID, token, refreshToken string) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "token", Value: token},
		{Key: "refresh_token", Value: refreshToken},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}
	if _, err := s.users.UpdateOne(ctx, bson.M{"user_id": userID}, update); err != nil {
		return errors.Wrap(err, "update tokens")
	}
	return nil
}
