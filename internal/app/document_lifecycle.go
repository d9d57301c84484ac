package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"kbbridge/internal/mapper"
	"kbbridge/internal/model"
	"kbbridge/internal/repository"
)

// StoppedParsingMessage is the fixed progress message after a stop action.
const StoppedParsingMessage = "parsing stopped by user"

// DocumentLifecycle owns the per-document status state machine: upload,
// parse, stop, retry, poll, delete. Remote failures during a
// status-affecting operation are absorbed into the document's status and
// message so batch callers can keep going; precondition violations are
// returned as typed errors before any remote call.
type DocumentLifecycle struct {
	db       *gorm.DB
	gateways GatewayFactory
}

func NewDocumentLifecycle(db *gorm.DB, gateways GatewayFactory) *DocumentLifecycle {
	return &DocumentLifecycle{db: db, gateways: gateways}
}

type documentScope struct {
	doc       *model.Document
	col       *model.Collection
	inst      *model.Instance
	gateway   Gateway
	docRepo   *repository.DocumentRepository
	datasetID string // collection remote id, empty if never synced
}

func (l *DocumentLifecycle) resolve(documentID uint) (*documentScope, error) {
	docRepo := repository.NewDocumentRepository(l.db)
	doc, err := docRepo.GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	col, err := repository.NewCollectionRepository(l.db).GetByID(doc.CollectionID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, ErrCollectionNotFound
	}
	inst, err := repository.NewInstanceRepository(l.db).GetByID(col.InstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	if !inst.Enabled {
		return nil, ErrInstanceDisabled
	}
	scope := &documentScope{
		doc:     doc,
		col:     col,
		inst:    inst,
		gateway: l.gateways(inst),
		docRepo: docRepo,
	}
	if col.RemoteID != nil {
		scope.datasetID = *col.RemoteID
	}
	return scope, nil
}

func (s *documentScope) requireDataset() error {
	if s.datasetID == "" {
		return fmt.Errorf("%w: collection %d", ErrMissingRemoteID, s.col.ID)
	}
	return nil
}

func localFileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Upload pushes a locally created document to the remote service:
// PENDING -> UPLOADING -> UPLOADED on success, SYNC_FAILED on failure.
func (l *DocumentLifecycle) Upload(ctx context.Context, documentID uint) (*model.Document, error) {
	scope, err := l.resolve(documentID)
	if err != nil {
		return nil, err
	}
	if err := scope.requireDataset(); err != nil {
		return nil, err
	}
	doc := scope.doc
	if !doc.Status.CanTransition(model.DocumentStatusUploading) {
		return nil, fmt.Errorf("%w: %s -> UPLOADING", ErrInvalidTransition, doc.Status)
	}
	if !localFileExists(doc.LocalPath) {
		return nil, ErrLocalFileMissing
	}

	doc.Status = model.DocumentStatusUploading
	if err := scope.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return l.performUpload(ctx, scope)
}

// performUpload runs the remote upload for a document already in UPLOADING.
func (l *DocumentLifecycle) performUpload(ctx context.Context, scope *documentScope) (*model.Document, error) {
	doc := scope.doc
	content, err := os.ReadFile(doc.LocalPath)
	if err != nil {
		doc.Status = model.DocumentStatusSyncFailed
		doc.ProgressMsg = "read local file failed: " + err.Error()
		if saveErr := scope.docRepo.Save(doc); saveErr != nil {
			return nil, saveErr
		}
		return doc, nil
	}

	filename := doc.Filename
	if filename == "" {
		filename = doc.Name
	}
	payload, err := scope.gateway.UploadDocument(ctx, scope.datasetID, filename, content)
	if err != nil {
		log.Printf("upload document %d (%s) failed: %v", doc.ID, doc.Name, err)
		doc.Status = model.DocumentStatusSyncFailed
		doc.ProgressMsg = err.Error()
		if saveErr := scope.docRepo.Save(doc); saveErr != nil {
			return nil, saveErr
		}
		return doc, nil
	}

	outcome := mapper.ApplyDocument(payload, doc)
	for _, skip := range outcome.Skipped {
		log.Printf("upload document %d: skipped field %s: %s", doc.ID, skip.Field, skip.Reason)
	}
	doc.Status = model.DocumentStatusUploaded
	doc.ProgressMsg = ""
	if err := scope.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// StartParse asks the remote service to chunk the document:
// UPLOADED/PENDING -> PROCESSING with progress reset to zero.
func (l *DocumentLifecycle) StartParse(ctx context.Context, documentID uint) (*model.Document, error) {
	scope, err := l.resolve(documentID)
	if err != nil {
		return nil, err
	}
	if err := scope.requireDataset(); err != nil {
		return nil, err
	}
	doc := scope.doc
	if doc.RemoteID == nil {
		return nil, fmt.Errorf("%w: document %d", ErrMissingRemoteID, doc.ID)
	}
	if !doc.Status.CanTransition(model.DocumentStatusProcessing) {
		return nil, fmt.Errorf("%w: %s -> PROCESSING", ErrInvalidTransition, doc.Status)
	}

	if err := scope.gateway.ParseDocuments(ctx, scope.datasetID, []string{*doc.RemoteID}); err != nil {
		log.Printf("start parse document %d (%s) failed: %v", doc.ID, doc.Name, err)
		doc.Status = model.DocumentStatusFailed
		doc.ProgressMsg = err.Error()
		if saveErr := scope.docRepo.Save(doc); saveErr != nil {
			return nil, saveErr
		}
		return doc, nil
	}

	zero := 0.0
	doc.Status = model.DocumentStatusProcessing
	doc.Progress = &zero
	doc.ProgressMsg = "parsing started"
	if err := scope.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// StopParse cancels parsing: PROCESSING -> PENDING, progress cleared. The
// remote stop instruction does not abort a request already in flight.
func (l *DocumentLifecycle) StopParse(ctx context.Context, documentID uint) (*model.Document, error) {
	scope, err := l.resolve(documentID)
	if err != nil {
		return nil, err
	}
	if err := scope.requireDataset(); err != nil {
		return nil, err
	}
	doc := scope.doc
	if doc.RemoteID == nil {
		return nil, fmt.Errorf("%w: document %d", ErrMissingRemoteID, doc.ID)
	}
	if doc.Status != model.DocumentStatusProcessing {
		return nil, fmt.Errorf("%w: %s -> PENDING", ErrInvalidTransition, doc.Status)
	}

	if err := scope.gateway.StopParseDocuments(ctx, scope.datasetID, []string{*doc.RemoteID}); err != nil {
		// Status stays PROCESSING: the remote side was not told to stop.
		log.Printf("stop parse document %d (%s) failed: %v", doc.ID, doc.Name, err)
		doc.ProgressMsg = err.Error()
		if saveErr := scope.docRepo.Save(doc); saveErr != nil {
			return nil, saveErr
		}
		return doc, nil
	}

	doc.Status = model.DocumentStatusPending
	doc.Progress = nil
	doc.ProgressMsg = StoppedParsingMessage
	if err := scope.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// PollStatus refreshes the document from the remote service and applies the
// terminal transitions: progress complete -> COMPLETED, remote error ->
// FAILED. A poll failure leaves the status untouched.
func (l *DocumentLifecycle) PollStatus(ctx context.Context, documentID uint) (*model.Document, error) {
	scope, err := l.resolve(documentID)
	if err != nil {
		return nil, err
	}
	if err := scope.requireDataset(); err != nil {
		return nil, err
	}
	doc := scope.doc
	if doc.RemoteID == nil {
		return nil, fmt.Errorf("%w: document %d", ErrMissingRemoteID, doc.ID)
	}

	payload, err := scope.gateway.GetDocument(ctx, scope.datasetID, *doc.RemoteID)
	if err != nil {
		log.Printf("poll document %d (%s) failed: %v", doc.ID, doc.Name, err)
		doc.ProgressMsg = err.Error()
		if saveErr := scope.docRepo.Save(doc); saveErr != nil {
			return nil, saveErr
		}
		return doc, nil
	}

	prev := doc.Status
	outcome := mapper.ApplyDocument(payload, doc)
	for _, skip := range outcome.Skipped {
		log.Printf("poll document %d: skipped field %s: %s", doc.ID, skip.Field, skip.Reason)
	}
	if doc.Progress != nil && *doc.Progress >= 1.0 {
		doc.Status = model.DocumentStatusCompleted
	}
	if doc.Status != prev && !prev.CanTransition(doc.Status) {
		// The remote state moved somewhere our table does not reach from
		// here; trust the remote but record it.
		log.Printf("poll document %d: remote moved %s -> %s", doc.ID, prev, doc.Status)
	}
	if err := scope.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Retry re-uploads a failed document. Only SYNC_FAILED and FAILED are
// eligible, and only while the local file still exists; the prior remote id
// is kept so an already-created remote resource is not orphaned.
func (l *DocumentLifecycle) Retry(ctx context.Context, documentID uint) (*model.Document, error) {
	scope, err := l.resolve(documentID)
	if err != nil {
		return nil, err
	}
	if err := scope.requireDataset(); err != nil {
		return nil, err
	}
	doc := scope.doc
	if !doc.Status.RetryEligible() {
		return nil, fmt.Errorf("%w: status %s", ErrRetryNotEligible, doc.Status)
	}
	if !localFileExists(doc.LocalPath) {
		return nil, ErrLocalFileMissing
	}

	zero := 0.0
	doc.Status = model.DocumentStatusUploading
	doc.Progress = &zero
	doc.ProgressMsg = ""
	if err := scope.docRepo.Save(doc); err != nil {
		return nil, err
	}
	return l.performUpload(ctx, scope)
}

// Delete removes a document. The remote delete is best-effort: a failure is
// logged and the local rows are removed anyway.
func (l *DocumentLifecycle) Delete(ctx context.Context, documentID uint) error {
	scope, err := l.resolve(documentID)
	if err != nil {
		return err
	}
	doc := scope.doc

	if doc.RemoteID != nil && scope.datasetID != "" {
		if err := scope.gateway.DeleteDocuments(ctx, scope.datasetID, []string{*doc.RemoteID}); err != nil {
			log.Printf("remote delete document %d (%s) failed: %v", doc.ID, doc.Name, err)
		}
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewChunkRepository(tx).DeleteByDocumentID(doc.ID); err != nil {
			return err
		}
		return repository.NewDocumentRepository(tx).Delete(doc.ID)
	})
	if err != nil {
		return err
	}

	if doc.LocalPath != "" {
		if rmErr := os.Remove(doc.LocalPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("remove local file for document %d failed: %v", doc.ID, rmErr)
		}
	}
	return nil
}

type CreateDocumentInput struct {
	CollectionID uint
	Name         string
	Filename     string
	Type         string
	Size         int64
	LocalPath    string
	Preview      string
}

// CreateLocal registers a locally uploaded file as a PENDING document. No
// remote call happens here; Upload pushes it later.
func (l *DocumentLifecycle) CreateLocal(input CreateDocumentInput) (*model.Document, error) {
	name := input.Name
	if name == "" {
		name = input.Filename
	}
	if input.CollectionID == 0 || name == "" || input.LocalPath == "" {
		return nil, ErrInvalidInput
	}
	col, err := repository.NewCollectionRepository(l.db).GetByID(input.CollectionID)
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, ErrCollectionNotFound
	}

	doc := &model.Document{
		CollectionID: input.CollectionID,
		Name:         name,
		Filename:     input.Filename,
		Type:         input.Type,
		Size:         input.Size,
		LocalPath:    input.LocalPath,
		Preview:      input.Preview,
		Status:       model.DocumentStatusPending,
	}
	if err := repository.NewDocumentRepository(l.db).Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns one document.
func (l *DocumentLifecycle) Get(documentID uint) (*model.Document, error) {
	doc, err := repository.NewDocumentRepository(l.db).GetByID(documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// List returns the documents of one collection.
func (l *DocumentLifecycle) List(collectionID uint) ([]model.Document, error) {
	if collectionID == 0 {
		return nil, ErrInvalidInput
	}
	return repository.NewDocumentRepository(l.db).ListByCollectionID(collectionID)
}
