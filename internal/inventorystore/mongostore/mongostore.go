// Package mongostore is the MongoDB-backed inventorystore.Store, mirroring
// the original system's OrbitDB collections and the read-only FOS_Translate
// job-type database. Collection names are kept identical to the source
// system so existing dumps/migrations apply unchanged.
package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rubic/ouroboros/internal/inventorystore"
	"github.com/rubic/ouroboros/internal/model"
)

// Collection names, matching ouroboros/db/mongodb.py.
const (
	collPartialItem    = "partial_item_collection"
	collPartialBarcode = "partial_barcode_collection"
	collInventoryItems = "inventory_items"
	collBarcode        = "barcode_collection"
	collRobotBatch     = "robot_batch_collection"
	collRobotJob       = "robot_job_collection"

	translateDB      = "FOS_Translate"
	collJobType      = "job_type_collection"
)

// Store is a MongoDB-backed Store.
type Store struct {
	orbit     *mongo.Database
	translate *mongo.Database
}

// New wraps an already-connected mongo.Client, pointed at the OrbitDB
// database (inventory/scan state) and the read-only FOS_Translate database
// (job-type configuration).
func New(client *mongo.Client, orbitDBName string) *Store {
	return &Store{
		orbit:     client.Database(orbitDBName),
		translate: client.Database(translateDB),
	}
}

func (s *Store) InsertPartialItem(ctx context.Context, item model.PartialItem) error {
	_, err := s.orbit.Collection(collPartialItem).InsertOne(ctx, item)
	return err
}

func (s *Store) InsertPartialBarcode(ctx context.Context, bc model.PartialBarcode) error {
	_, err := s.orbit.Collection(collPartialBarcode).InsertOne(ctx, bc)
	return err
}

func (s *Store) FindPartialItems(ctx context.Context, f inventorystore.PartialItemFilter) ([]model.PartialItem, error) {
	filter := bson.M{
		"meta.scan_id":     f.ScanID,
		"meta.aisle_index": f.AisleIndex,
		"meta.item_type":   f.ItemType,
		"relative.side":    f.Side,
		"meta.confidence":  bson.M{"$gte": f.ConfidenceThreshold},
		"absolute.dimension.x": bson.M{"$gte": f.MinWidth},
	}
	opts := options.Find().SetSort(bson.D{{Key: "absolute.position.x", Value: 1}})
	cur, err := s.orbit.Collection(collPartialItem).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.PartialItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) FindPartialBarcodes(ctx context.Context, f inventorystore.PartialBarcodeFilter) ([]model.PartialBarcode, error) {
	filter := bson.M{
		"meta.scan_id":     f.ScanID,
		"meta.aisle_index": f.AisleIndex,
		"relative.side":    f.Side,
	}
	opts := options.Find().SetSort(bson.D{{Key: "absolute.position.x", Value: 1}})
	cur, err := s.orbit.Collection(collPartialBarcode).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.PartialBarcode
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DistinctPartialItemAisleIndexes(ctx context.Context) ([]int, error) {
	raw, err := s.orbit.Collection(collPartialItem).Distinct(ctx, "meta.aisle_index", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int32:
			out = append(out, int(n))
		case int64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) InsertItems(ctx context.Context, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i, it := range items {
		docs[i] = it
	}
	_, err := s.orbit.Collection(collInventoryItems).InsertMany(ctx, docs)
	return err
}

func (s *Store) InsertItem(ctx context.Context, item model.Item) error {
	_, err := s.orbit.Collection(collInventoryItems).InsertOne(ctx, item)
	return err
}

func (s *Store) UpsertItem(ctx context.Context, item model.Item) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.orbit.Collection(collInventoryItems).ReplaceOne(ctx, bson.M{"uuid": item.UUID}, item, opts)
	return err
}

func (s *Store) DeleteItem(ctx context.Context, uuid string) error {
	res, err := s.orbit.Collection(collInventoryItems).DeleteOne(ctx, bson.M{"uuid": uuid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return inventorystore.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteNonConveyorItems(ctx context.Context) error {
	_, err := s.orbit.Collection(collInventoryItems).DeleteMany(ctx, bson.M{
		"meta.item_type": bson.M{"$ne": model.ItemTypeConveyor},
	})
	return err
}

func (s *Store) FindItemByUUID(ctx context.Context, uuid string) (model.Item, error) {
	var it model.Item
	err := s.orbit.Collection(collInventoryItems).FindOne(ctx, bson.M{"uuid": uuid}).Decode(&it)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Item{}, inventorystore.ErrNotFound
	}
	return it, err
}

func (s *Store) FindItemByBarcodeData(ctx context.Context, data string) (model.Item, error) {
	bc, err := s.FindBarcodeByData(ctx, data)
	if err != nil {
		return model.Item{}, err
	}
	if bc.ItemUUID == nil {
		return model.Item{}, inventorystore.ErrNotFound
	}
	item, err := s.FindItemByUUID(ctx, *bc.ItemUUID)
	if err != nil {
		return model.Item{}, err
	}
	item.PrimaryBarcode = &bc
	return item, nil
}

func (s *Store) FindNearby(ctx context.Context, aisleIndex int, side model.Side, cx, cy float64) ([]model.Item, error) {
	filter := bson.M{
		"meta.location":    model.LocationInventory,
		"meta.aisle_index": aisleIndex,
		"relative.side":    side,
		"absolute.position.x": bson.M{"$gt": cx - inventorystore.NearbyDefaultDX, "$lt": cx + inventorystore.NearbyDefaultDX},
		"absolute.position.y": bson.M{"$gt": cy - inventorystore.NearbyDefaultDY, "$lt": cy + inventorystore.NearbyDefaultDY},
	}
	cur, err := s.orbit.Collection(collInventoryItems).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Item
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) FindBestEmpty(ctx context.Context, aisleIndex int, side model.Side, minWidth, minHeight float64) (model.Item, error) {
	filter := bson.M{
		"meta.item_type":        model.ItemTypeEmpty,
		"meta.aisle_index":      aisleIndex,
		"relative.side":         side,
		"relative.dimension.x":  bson.M{"$gt": minWidth},
		"relative.dimension.y":  bson.M{"$gt": minHeight},
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$addFields", Value: bson.M{
			"__area": bson.M{"$multiply": bson.A{"$relative.dimension.x", "$relative.dimension.y"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "__area", Value: 1}}}},
		{{Key: "$limit", Value: 1}},
	}
	cur, err := s.orbit.Collection(collInventoryItems).Aggregate(ctx, pipeline)
	if err != nil {
		return model.Item{}, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		return model.Item{}, inventorystore.ErrNotFound
	}
	var it model.Item
	if err := cur.Decode(&it); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (s *Store) FindItemsWithUUIDInStack(ctx context.Context, uuid string) ([]model.Item, error) {
	cur, err := s.orbit.Collection(collInventoryItems).Find(ctx, bson.M{"meta.stack": uuid})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Item
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) InsertBarcode(ctx context.Context, bc model.Barcode) error {
	_, err := s.orbit.Collection(collBarcode).InsertOne(ctx, bc)
	return err
}

func (s *Store) InsertBarcodes(ctx context.Context, barcodes []model.Barcode) error {
	if len(barcodes) == 0 {
		return nil
	}
	docs := make([]interface{}, len(barcodes))
	for i, bc := range barcodes {
		docs[i] = bc
	}
	_, err := s.orbit.Collection(collBarcode).InsertMany(ctx, docs)
	return err
}

func (s *Store) DeleteAllBarcodes(ctx context.Context) error {
	_, err := s.orbit.Collection(collBarcode).DeleteMany(ctx, bson.M{})
	return err
}

func (s *Store) DeleteBarcodesByItemUUID(ctx context.Context, itemUUID string) error {
	_, err := s.orbit.Collection(collBarcode).DeleteMany(ctx, bson.M{"item_uuid": itemUUID})
	return err
}

func (s *Store) FindBarcodeByData(ctx context.Context, data string) (model.Barcode, error) {
	cur, err := s.orbit.Collection(collBarcode).Find(ctx, bson.M{"meta.data": data})
	if err != nil {
		return model.Barcode{}, err
	}
	defer cur.Close(ctx)

	var matches []model.Barcode
	if err := cur.All(ctx, &matches); err != nil {
		return model.Barcode{}, err
	}
	switch len(matches) {
	case 0:
		return model.Barcode{}, inventorystore.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return model.Barcode{}, inventorystore.ErrAmbiguous
	}
}

func (s *Store) FindBarcodesByData(ctx context.Context, data []string) ([]model.Barcode, error) {
	cur, err := s.orbit.Collection(collBarcode).Find(ctx, bson.M{"meta.data": bson.M{"$in": data}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []model.Barcode
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) FindPrimaryBarcode(ctx context.Context, itemUUID string) (model.Barcode, error) {
	filter := bson.M{
		"item_uuid":         itemUUID,
		"meta.barcode_type": bson.M{"$in": []model.BarcodeType{model.BarcodeTypeGS1128, model.BarcodeTypeCode128}},
	}
	var bc model.Barcode
	err := s.orbit.Collection(collBarcode).FindOne(ctx, filter).Decode(&bc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Barcode{}, inventorystore.ErrNotFound
	}
	return bc, err
}

func (s *Store) FindJobType(ctx context.Context, vendor, jobType string) (model.JobType, error) {
	var jt model.JobType
	err := s.translate.Collection(collJobType).FindOne(ctx, bson.M{"vendor": vendor, "job_type": jobType}).Decode(&jt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.JobType{}, inventorystore.ErrNotFound
	}
	return jt, err
}

func (s *Store) InsertBatch(ctx context.Context, batch model.RobotBatch) error {
	_, err := s.orbit.Collection(collRobotBatch).InsertOne(ctx, batch)
	return err
}

func (s *Store) InsertJob(ctx context.Context, job model.RobotJob) error {
	_, err := s.orbit.Collection(collRobotJob).InsertOne(ctx, job)
	return err
}

func (s *Store) ReplaceBatch(ctx context.Context, batch model.RobotBatch) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.orbit.Collection(collRobotBatch).ReplaceOne(ctx, bson.M{"batch_id": batch.BatchID}, batch, opts)
	return err
}

func (s *Store) ReplaceJob(ctx context.Context, job model.RobotJob) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.orbit.Collection(collRobotJob).ReplaceOne(ctx, bson.M{"job_id": job.JobID}, job, opts)
	return err
}

var _ inventorystore.Store = (*Store)(nil)
