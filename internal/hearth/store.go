// Package hearth reads and updates Hearth items stored in Firestore.
package hearth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Another0Noob/hearth-import/internal/logging"
	"github.com/Another0Noob/hearth-import/internal/match"
)

const (
	fieldName   = "name"
	fieldUserID = "userId"
	fieldImage  = "imageUrl"
)

type Options struct {
	ProjectID       string // detected from credentials when empty
	CredentialsFile string // Application Default Credentials when empty
	Collection      string
	UserID          string
}

// Store is a Hearth item collection scoped to one user.
type Store struct {
	client     *firestore.Client
	collection string
	userID     string
}

// Open connects to Firestore.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.UserID == "" {
		return nil, errors.New("hearth: user id is required")
	}
	if opts.Collection == "" {
		opts.Collection = "items"
	}

	projectID := opts.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	copts := clientOptions(opts.CredentialsFile)
	if opts.CredentialsFile != "" && len(copts) == 0 {
		log := logging.FromContext(ctx)
		log.Warn().Str("credentials", opts.CredentialsFile).Msg("credentials file not found, using application default credentials")
	}

	client, err := firestore.NewClient(ctx, projectID, copts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client, collection: opts.Collection, userID: opts.UserID}, nil
}

// clientOptions selects the credentials file when it exists. Otherwise the
// client falls back to Application Default Credentials.
func clientOptions(credentialsFile string) []option.ClientOption {
	if credentialsFile == "" {
		return nil
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Entries returns the user's items as match entries keyed by document ID,
// in query order.
func (s *Store) Entries(ctx context.Context) ([]match.Entry[string], error) {
	iter := s.client.Collection(s.collection).Where(fieldUserID, "==", s.userID).Documents(ctx)
	defer iter.Stop()

	var out []match.Entry[string]
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.collection, err)
		}
		if e, ok := entryFromData(doc.Ref.ID, doc.Data()); ok {
			out = append(out, e)
		}
	}
}

// SetImage writes dataURL to the item's image field, leaving other fields untouched.
func (s *Store) SetImage(ctx context.Context, docID, dataURL string) error {
	_, err := s.client.Collection(s.collection).Doc(docID).Update(ctx, []firestore.Update{
		{Path: fieldImage, Value: dataURL},
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", s.collection, docID, err)
	}
	return nil
}

// entryFromData skips documents without a usable name.
func entryFromData(id string, data map[string]any) (match.Entry[string], bool) {
	name, _ := data[fieldName].(string)
	if strings.TrimSpace(name) == "" {
		return match.Entry[string]{}, false
	}
	return match.Entry[string]{Name: name, Reference: id}, true
}
