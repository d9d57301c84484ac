package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
	"kbbridge/internal/repository"
)

const (
	// maxReportErrors bounds the per-report error list.
	maxReportErrors = 20

	// DefaultSyncCooldown throttles re-triggered listing syncs.
	DefaultSyncCooldown = 300 * time.Second

	listPageSize = 100
	maxListPages = 50
)

// BatchReport aggregates a batch run. successCount + failureCount always
// equals the number of items attempted.
type BatchReport struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	Errors       []string `json:"errors,omitempty"`
}

func newReport(kind string) BatchReport {
	return BatchReport{ID: uuid.NewString(), Kind: kind}
}

func (r *BatchReport) recordSuccess() { r.SuccessCount++ }

func (r *BatchReport) recordFailure(item string, err error) {
	r.FailureCount++
	if len(r.Errors) < maxReportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", item, err))
	}
}

// runBatch drives op over items, isolating per-item failures: one item's
// error never stops the rest. Each op commits independently.
func runBatch[T any](kind string, items []T, describe func(T) string, op func(T) error) BatchReport {
	report := newReport(kind)
	for _, item := range items {
		if err := op(item); err != nil {
			log.Printf("batch %s: %s failed: %v", kind, describe(item), err)
			report.recordFailure(describe(item), err)
			continue
		}
		report.recordSuccess()
	}
	return report
}

// EventPublisher emits sync audit events. Publishing is best-effort; the
// production implementation is backed by the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event model.SyncEvent) error
}

// BatchRunner drives the sync and lifecycle services across whole
// collections and instances, aggregating partial failures into reports.
type BatchRunner struct {
	db          *gorm.DB
	coordinator *SyncCoordinator
	lifecycle   *DocumentLifecycle
	chunks      *ChunkSync
	gateways    GatewayFactory
	events      EventPublisher
	cooldown    time.Duration
}

func NewBatchRunner(
	db *gorm.DB,
	coordinator *SyncCoordinator,
	lifecycle *DocumentLifecycle,
	chunks *ChunkSync,
	gateways GatewayFactory,
	events EventPublisher,
	cooldown time.Duration,
) *BatchRunner {
	if cooldown <= 0 {
		cooldown = DefaultSyncCooldown
	}
	return &BatchRunner{
		db:          db,
		coordinator: coordinator,
		lifecycle:   lifecycle,
		chunks:      chunks,
		gateways:    gateways,
		events:      events,
		cooldown:    cooldown,
	}
}

func (b *BatchRunner) instance(id uint) (*model.Instance, error) {
	inst, err := repository.NewInstanceRepository(b.db).GetByID(id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, ErrInstanceNotFound
	}
	if !inst.Enabled {
		return nil, ErrInstanceDisabled
	}
	return inst, nil
}

// checkCooldown enforces the listing-sync throttle. The last-sync time is
// supplied explicitly by the caller so the cooldown carries no hidden state.
func (b *BatchRunner) checkCooldown(lastSync time.Time, force bool) error {
	if force || lastSync.IsZero() {
		return nil
	}
	if time.Since(lastSync) < b.cooldown {
		return ErrCooldownActive
	}
	return nil
}

// publish emits an audit event for a finished batch, best-effort.
func (b *BatchRunner) publish(ctx context.Context, report BatchReport, entityKind string, scopeID uint) {
	if b.events == nil {
		return
	}
	outcome := model.SyncOutcomeOK
	if report.FailureCount > 0 {
		outcome = model.SyncOutcomeFailed
	}
	event := model.SyncEvent{
		ID:         report.ID,
		Kind:       report.Kind,
		EntityKind: entityKind,
		EntityID:   scopeID,
		Outcome:    outcome,
		Message:    fmt.Sprintf("success=%d failure=%d", report.SuccessCount, report.FailureCount),
		CreatedAt:  time.Now(),
	}
	if err := b.events.Publish(ctx, event); err != nil {
		log.Printf("publish sync event %s failed: %v", report.Kind, err)
	}
}

// listAll fetches every page of a remote listing, bounded by maxListPages.
func listAll(fetch func(page, pageSize int) ([]remote.Payload, int, error)) ([]remote.Payload, error) {
	var all []remote.Payload
	for page := 1; page <= maxListPages; page++ {
		items, total, err := fetch(page, listPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < listPageSize || (total > 0 && len(all) >= total) {
			break
		}
	}
	return all, nil
}

// SyncCollections pulls the remote dataset listing into local collections.
// lastSync is the caller-supplied timestamp of the previous listing sync;
// within the cooldown window the run is skipped unless force is set.
func (b *BatchRunner) SyncCollections(ctx context.Context, instanceID uint, lastSync time.Time, force bool) (BatchReport, error) {
	if err := b.checkCooldown(lastSync, force); err != nil {
		return BatchReport{}, err
	}
	inst, err := b.instance(instanceID)
	if err != nil {
		return BatchReport{}, err
	}
	gateway := b.gateways(inst)
	payloads, err := listAll(func(page, pageSize int) ([]remote.Payload, int, error) {
		return gateway.ListDatasets(ctx, page, pageSize)
	})
	if err != nil {
		return BatchReport{}, err
	}

	report := runBatch("sync collections", payloads,
		func(p remote.Payload) string { return "dataset " + p.ID() },
		func(p remote.Payload) error {
			_, err := b.coordinator.SyncCollection(ctx, instanceID, p)
			return err
		})
	b.publish(ctx, report, "collection", instanceID)
	return report, nil
}

// SyncDocuments pulls the remote document listing of one collection and
// reconciles each document's chunks using the chunk total the listing
// already reported.
func (b *BatchRunner) SyncDocuments(ctx context.Context, collectionID uint) (BatchReport, error) {
	col, err := repository.NewCollectionRepository(b.db).GetByID(collectionID)
	if err != nil {
		return BatchReport{}, err
	}
	if col == nil {
		return BatchReport{}, ErrCollectionNotFound
	}
	if col.RemoteID == nil {
		return BatchReport{}, fmt.Errorf("%w: collection %d", ErrMissingRemoteID, collectionID)
	}
	inst, err := b.instance(col.InstanceID)
	if err != nil {
		return BatchReport{}, err
	}
	gateway := b.gateways(inst)
	payloads, err := listAll(func(page, pageSize int) ([]remote.Payload, int, error) {
		return gateway.ListDocuments(ctx, *col.RemoteID, page, pageSize)
	})
	if err != nil {
		return BatchReport{}, err
	}

	report := runBatch("sync documents", payloads,
		func(p remote.Payload) string { return "document " + p.ID() },
		func(p remote.Payload) error {
			doc, err := b.coordinator.SyncDocument(ctx, collectionID, p)
			if err != nil {
				return err
			}
			// The chunk total comes from the listing payload, not from the
			// stored document: the stored count tracks what was reconciled
			// locally, so comparing it against itself would skip every fetch.
			remoteTotal := -1
			if n, ok := p.Int("chunk_count", "chunkCount", "chunk_num"); ok {
				remoteTotal = n
			}
			result := b.chunks.SyncChunks(ctx, doc.ID, remoteTotal)
			if !result.Success {
				return fmt.Errorf("chunk sync: %s", result.Error)
			}
			return nil
		})
	b.publish(ctx, report, "document", collectionID)
	return report, nil
}

// RetryFailedDocuments retries every retry-eligible document in a
// collection. Ineligible items (e.g. missing local file) are counted as
// failures without stopping the rest.
func (b *BatchRunner) RetryFailedDocuments(ctx context.Context, collectionID uint) (BatchReport, error) {
	docs, err := repository.NewDocumentRepository(b.db).ListByStatus(collectionID,
		model.DocumentStatusSyncFailed, model.DocumentStatusFailed)
	if err != nil {
		return BatchReport{}, err
	}

	report := runBatch("retry failed documents", docs,
		func(d model.Document) string { return fmt.Sprintf("document %d (%s)", d.ID, d.Name) },
		func(d model.Document) error {
			retried, err := b.lifecycle.Retry(ctx, d.ID)
			if err != nil {
				return err
			}
			if retried.Status == model.DocumentStatusSyncFailed {
				return fmt.Errorf("upload failed: %s", retried.ProgressMsg)
			}
			return nil
		})
	b.publish(ctx, report, "document", collectionID)
	return report, nil
}

// SyncAssistants pulls the remote chat-assistant listing of an instance.
func (b *BatchRunner) SyncAssistants(ctx context.Context, instanceID uint) (BatchReport, error) {
	inst, err := b.instance(instanceID)
	if err != nil {
		return BatchReport{}, err
	}
	gateway := b.gateways(inst)
	payloads, err := listAll(func(page, pageSize int) ([]remote.Payload, int, error) {
		return gateway.ListAssistants(ctx, page, pageSize)
	})
	if err != nil {
		return BatchReport{}, err
	}

	report := runBatch("sync assistants", payloads,
		func(p remote.Payload) string { return "assistant " + p.ID() },
		func(p remote.Payload) error {
			_, err := b.coordinator.SyncAssistant(ctx, instanceID, p)
			return err
		})
	b.publish(ctx, report, "assistant", instanceID)
	return report, nil
}

// SyncAgents pushes every local agent of an instance to the remote side.
// An agent without a remote id has never been created remotely, so the
// create endpoint is used instead of update; the returned id is stored.
func (b *BatchRunner) SyncAgents(ctx context.Context, instanceID uint) (BatchReport, error) {
	inst, err := b.instance(instanceID)
	if err != nil {
		return BatchReport{}, err
	}
	gateway := b.gateways(inst)
	agentRepo := repository.NewAgentRepository(b.db)
	agents, err := agentRepo.ListByInstanceID(instanceID)
	if err != nil {
		return BatchReport{}, err
	}

	report := runBatch("sync agents", agents,
		func(a model.Agent) string { return fmt.Sprintf("agent %d (%s)", a.ID, a.Name) },
		func(a model.Agent) error {
			fields := agentFields(&a)
			if a.RemoteID == nil || *a.RemoteID == "" {
				payload, err := gateway.CreateAgent(ctx, fields)
				if err != nil {
					return err
				}
				if id := payload.ID(); id != "" {
					a.RemoteID = &id
				}
			} else {
				if err := gateway.UpdateAgent(ctx, *a.RemoteID, fields); err != nil {
					return err
				}
			}
			now := time.Now()
			a.LastSyncTime = &now
			return agentRepo.Save(&a)
		})
	b.publish(ctx, report, "agent", instanceID)
	return report, nil
}

// agentFields builds the outbound payload for an agent. A DSL blob that is
// valid JSON is sent structurally, otherwise as text.
func agentFields(a *model.Agent) map[string]any {
	fields := map[string]any{
		"title":       a.Name,
		"description": a.Description,
	}
	if a.DSL != "" {
		var dsl map[string]any
		if err := json.Unmarshal([]byte(a.DSL), &dsl); err == nil {
			fields["dsl"] = dsl
		} else {
			fields["dsl"] = a.DSL
		}
	}
	return fields
}

// SyncModels pulls the remote model catalog of an instance.
func (b *BatchRunner) SyncModels(ctx context.Context, instanceID uint) (BatchReport, error) {
	inst, err := b.instance(instanceID)
	if err != nil {
		return BatchReport{}, err
	}
	gateway := b.gateways(inst)
	payloads, err := gateway.ListModels(ctx)
	if err != nil {
		return BatchReport{}, err
	}

	report := runBatch("sync models", payloads,
		func(p remote.Payload) string {
			if name, ok := p.String("name", "llm_name", "model_name"); ok {
				return "model " + name
			}
			return "model " + p.ID()
		},
		func(p remote.Payload) error {
			_, err := b.coordinator.SyncModel(ctx, instanceID, p)
			return err
		})
	b.publish(ctx, report, "model", instanceID)
	return report, nil
}
