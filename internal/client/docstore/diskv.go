package docstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mymoment/internal/common"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

const diskvTempDir = ".tmp"

// DiskvStore keeps one JSON file per document under <base>/<user>/<id>.
// Local writes notify listeners directly; Watch adds notifications for
// changes made by other processes.
type DiskvStore struct {
	d        *diskv.Diskv
	basePath string
	logger   logging.Logger

	notifyMu sync.Mutex
	hub      hub
}

func NewDiskvStore(basePath string, logger logging.Logger) (*DiskvStore, error) {
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("docstore: ensure base path: %w", err)
	}
	return &DiskvStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			TempDir:           filepath.Join(basePath, diskvTempDir),
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// no cache: files may change under us
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		logger:   logger.With("module", "diskv_store"),
	}, nil
}

func keyToPathTransform(key string) *diskv.PathKey {
	dir, file, _ := strings.Cut(key, "/")
	return &diskv.PathKey{Path: []string{dir}, FileName: file}
}

func pathToKeyTransform(pk *diskv.PathKey) string {
	return strings.Join(pk.Path, "/") + "/" + pk.FileName
}

// userDir is a filesystem-safe name for a user id.
func userDir(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func userFromDir(dir string) (string, bool) {
	b, err := base64.RawURLEncoding.DecodeString(dir)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func docKey(userID, id string) string {
	return userDir(userID) + "/" + id
}

func (s *DiskvStore) read(key string) (Document, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(val, &doc); err != nil {
		return Document{}, err
	}
	doc.ID = keyToPathTransform(key).FileName
	return doc, nil
}

func (s *DiskvStore) snapshot(ctx context.Context, userID string) []Document {
	cancel := make(chan struct{})
	defer close(cancel)

	docs := make([]Document, 0)
	for key := range s.d.KeysPrefix(userDir(userID)+"/", cancel) {
		if ctx.Err() != nil {
			break
		}
		doc, err := s.read(key)
		if err != nil {
			// half-written or foreign file
			s.logger.Warn(ctx, "skip unreadable document", "key", key, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	SortDocuments(docs)
	return docs
}

func (s *DiskvStore) push(ctx context.Context, userID string) {
	ls := s.hub.of(userID)
	if len(ls) == 0 {
		return
	}
	broadcast(ls, s.snapshot(context.WithoutCancel(ctx), userID))
}

func (s *DiskvStore) writeDoc(key string, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func (s *DiskvStore) Add(ctx context.Context, userID string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := uuid.NewString()
	if err := s.writeDoc(docKey(userID, id), doc); err != nil {
		return "", fmt.Errorf("docstore: write: %w", err)
	}
	s.push(ctx, userID)
	return id, nil
}

func (s *DiskvStore) Update(ctx context.Context, userID, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	key := docKey(userID, id)
	if !s.d.Has(key) {
		return common.ErrNotFound
	}
	if err := s.writeDoc(key, doc); err != nil {
		return fmt.Errorf("docstore: write: %w", err)
	}
	s.push(ctx, userID)
	return nil
}

func (s *DiskvStore) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	key := docKey(userID, id)
	if !s.d.Has(key) {
		return common.ErrNotFound
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("docstore: erase: %w", err)
	}
	s.push(ctx, userID)
	return nil
}

func (s *DiskvStore) Listen(ctx context.Context, userID string, onSnapshot func([]Document), onError func(error)) (Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	snap := s.snapshot(ctx, userID)
	l := s.hub.add(ctx, userID, onSnapshot, onError)
	l.snapshot(snap)
	return l, nil
}
