package mongodb

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/ruslano69/itemgate/pkg/adapters"
)

// Compile-time check
var _ adapters.Adapter = (*Adapter)(nil)

const (
	defaultPort = 27017

	// ItemsCollection - коллекция, в которой хранятся items
	ItemsCollection = "items"
)

func init() {
	adapters.Register(adapters.KindMongoDB, New)
}

// Adapter реализует adapters.Adapter для MongoDB.
// Клиент создается лениво один раз и живет до Close.
//
// id назначается адаптером как max(id)+1, а не самой БД. Это не атомарно:
// два параллельных CreateItem могут получить одинаковый id.
type Adapter struct {
	cfg adapters.Config
	rec adapters.Recorder

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

// New создает адаптер без подключения к БД
func New(cfg adapters.Config, rec adapters.Recorder) adapters.Adapter {
	return &Adapter{cfg: cfg, rec: adapters.OrDiscard(rec)}
}

// Kind реализует adapters.Adapter
func (a *Adapter) Kind() adapters.Kind {
	return adapters.KindMongoDB
}

// URI строит mongodb:// URL. Учетные данные добавляются только если заданы
// и логин, и пароль; оба экранируются.
func URI(cfg adapters.Config) string {
	auth := ""
	if cfg.User != "" && cfg.Password != "" {
		auth = escapeCredential(cfg.User) + ":" + escapeCredential(cfg.Password) + "@"
	}
	host := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.PortNumber(defaultPort)))
	return fmt.Sprintf("mongodb://%s%s/%s", auth, host, cfg.Database)
}

// escapeCredential кодирует логин или пароль для userinfo: пробел как %20,
// а не "+", который драйвер оставляет как есть.
func escapeCredential(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// database возвращает handle БД, создавая клиента при первом обращении
func (a *Adapter) database() (*mongo.Database, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.db != nil {
		return a.db, nil
	}

	user := "(none)"
	if a.cfg.User != "" {
		user = "(set)"
	}
	a.rec.Record(fmt.Sprintf("Connecting to MongoDB {host: %s, port: %d, database: %s, user: %s}",
		a.cfg.Host, a.cfg.PortNumber(defaultPort), a.cfg.Database, user), false)

	client, err := mongo.Connect(options.Client().ApplyURI(URI(a.cfg)))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	a.client = client
	a.db = client.Database(a.cfg.Database)
	return a.db, nil
}

func (a *Adapter) items() (*mongo.Collection, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return db.Collection(ItemsCollection), nil
}

// Ping выполняет команду ping
func (a *Adapter) Ping(ctx context.Context) error {
	db, err := a.database()
	if err != nil {
		return err
	}
	return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// ListTables возвращает имена коллекций
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error listing collections: %w", err)
	}
	return names, nil
}

// ListItems возвращает документы, отсортированные по id
func (a *Adapter) ListItems(ctx context.Context) ([]adapters.Item, error) {
	coll, err := a.items()
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error querying collection %s: %w", ItemsCollection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding documents: %w", err)
	}

	items := make([]adapters.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, adapters.ItemFromRow(doc))
	}
	return items, nil
}

// GetItem ищет документ по полю id (не _id)
func (a *Adapter) GetItem(ctx context.Context, id int64) (adapters.Item, error) {
	coll, err := a.items()
	if err != nil {
		return adapters.Item{}, err
	}

	var doc bson.M
	err = coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return adapters.Item{}, adapters.ErrNotFound
	}
	if err != nil {
		return adapters.Item{}, fmt.Errorf("error fetching item: %w", err)
	}
	return adapters.ItemFromRow(doc), nil
}

// nextID возвращает max(id)+1 или 1 для пустой коллекции
func nextID(ctx context.Context, coll *mongo.Collection) (int64, error) {
	var last bson.M
	err := coll.FindOne(ctx, bson.D{}, options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading last id: %w", err)
	}
	id, ok := adapters.ToInt64(last["id"])
	if !ok {
		return 0, fmt.Errorf("unexpected id value %v (%T)", last["id"], last["id"])
	}
	return id + 1, nil
}

// CreateItem вставляет документ {id, name, createdAt}. createdAt - UTC,
// округленный до миллисекунд (точность BSON datetime).
func (a *Adapter) CreateItem(ctx context.Context, name string) (adapters.Item, error) {
	coll, err := a.items()
	if err != nil {
		return adapters.Item{}, err
	}

	id, err := nextID(ctx, coll)
	if err != nil {
		return adapters.Item{}, err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := bson.M{"id": id, "name": name, "createdAt": now}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return adapters.Item{}, fmt.Errorf("error inserting item: %w", err)
	}
	return adapters.ItemFromRow(doc), nil
}

// Close отключает клиента
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		return nil
	}
	err := a.client.Disconnect(ctx)
	a.client = nil
	a.db = nil
	return err
}
