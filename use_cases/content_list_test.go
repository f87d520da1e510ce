package use_cases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pedrops164/ShortsCreator/domain/models"
)

func draftItem(id string) models.Content {
	return models.Content{
		ID:             id,
		TemplateID:     models.TemplateRedditStory,
		Status:         models.StatusDraft,
		CreatedAt:      time.Now(),
		LastModifiedAt: time.Now(),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestContentListRefresh(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"), draftItem("b"))

	list := NewContentList(gw, []models.ContentStatus{models.StatusDraft})
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(list.Items()) != 2 {
		t.Fatalf("items = %d, want 2", len(list.Items()))
	}
	if list.PageNumber() != 1 {
		t.Fatalf("page = %d, want 1", list.PageNumber())
	}
}

func TestContentListPagination(t *testing.T) {
	gw := newFakeGateway()
	for i := 0; i < 12; i++ {
		gw.seed(draftItem(fmt.Sprintf("item-%02d", i)))
	}

	list := NewContentList(gw, nil)
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if list.TotalPages() != 3 {
		t.Fatalf("TotalPages = %d, want 3 (12 items / 5 per page)", list.TotalPages())
	}
	if got := len(list.Page()); got != 5 {
		t.Fatalf("page 1 size = %d, want 5", got)
	}

	list.SetPage(3)
	if got := len(list.Page()); got != 2 {
		t.Fatalf("page 3 size = %d, want 2", got)
	}

	// out-of-range pages clamp
	list.SetPage(99)
	if list.PageNumber() != 3 {
		t.Fatalf("page = %d, want clamp to 3", list.PageNumber())
	}
	list.SetPage(-1)
	if list.PageNumber() != 1 {
		t.Fatalf("page = %d, want clamp to 1", list.PageNumber())
	}

	list.SetPageSize(12)
	if list.TotalPages() != 1 || len(list.Page()) != 12 {
		t.Fatalf("after SetPageSize(12): pages=%d size=%d", list.TotalPages(), len(list.Page()))
	}
}

func TestContentListEmptyHasOnePage(t *testing.T) {
	list := NewContentList(newFakeGateway(), nil)
	_ = list.Refresh(context.Background())
	if list.TotalPages() != 1 {
		t.Fatalf("TotalPages = %d, want 1 for empty set", list.TotalPages())
	}
}

func TestApplyVideoStatus(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"))
	list := NewContentList(gw, nil)
	_ = list.Refresh(context.Background())

	var changes int
	list.OnChange = func() { changes++ }

	list.ApplyVideoStatus(models.VideoStatusUpdate{
		ContentID:          "a",
		Status:             models.StatusProcessing,
		ProgressPercentage: floatPtr(40),
	})

	items := list.Items()
	if items[0].Status != models.StatusProcessing {
		t.Fatalf("status = %s, want PROCESSING", items[0].Status)
	}
	// the record itself carries the pushed progress, not a side channel
	if items[0].ProgressPercentage == nil || *items[0].ProgressPercentage != 40 {
		t.Fatalf("record.ProgressPercentage = %v, want 40", items[0].ProgressPercentage)
	}
	if p, ok := list.Progress("a"); !ok || p != 40 {
		t.Fatalf("progress = %v %v, want 40", p, ok)
	}
	if changes != 1 {
		t.Fatalf("changes = %d, want 1", changes)
	}

	// same event again is a no-op
	list.ApplyVideoStatus(models.VideoStatusUpdate{
		ContentID:          "a",
		Status:             models.StatusProcessing,
		ProgressPercentage: floatPtr(40),
	})
	if changes != 1 {
		t.Fatalf("idempotent re-apply fired OnChange, changes = %d", changes)
	}

	// terminal status clears progress
	list.ApplyVideoStatus(models.VideoStatusUpdate{ContentID: "a", Status: models.StatusCompleted})
	if _, ok := list.Progress("a"); ok {
		t.Fatal("progress should be cleared on completion")
	}
	if list.Items()[0].ProgressPercentage != nil {
		t.Fatal("record.ProgressPercentage should be nil after terminal status")
	}
	if list.Items()[0].Status != models.StatusCompleted {
		t.Fatal("status not patched to COMPLETED")
	}
}

func TestApplyVideoStatusUnknownIDIgnored(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"))
	list := NewContentList(gw, nil)
	_ = list.Refresh(context.Background())

	var changes int
	list.OnChange = func() { changes++ }

	list.ApplyVideoStatus(models.VideoStatusUpdate{ContentID: "ghost", Status: models.StatusCompleted})
	if changes != 0 {
		t.Fatal("unknown content id must be ignored")
	}
	if list.Items()[0].Status != models.StatusDraft {
		t.Fatal("existing item was touched")
	}
}

func TestApplyVideoStatusDropsStaleEvents(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"))
	list := NewContentList(gw, nil)
	_ = list.Refresh(context.Background())

	newer := time.Now()
	older := newer.Add(-10 * time.Second)

	list.ApplyVideoStatus(models.VideoStatusUpdate{
		ContentID: "a", Status: models.StatusCompleted, OccurredAt: &newer,
	})
	list.ApplyVideoStatus(models.VideoStatusUpdate{
		ContentID: "a", Status: models.StatusProcessing,
		ProgressPercentage: floatPtr(80), OccurredAt: &older,
	})

	if got := list.Items()[0].Status; got != models.StatusCompleted {
		t.Fatalf("status = %s, stale event was applied", got)
	}
}

func TestOptimisticDelete(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"), draftItem("b"))
	list := NewContentList(gw, nil)
	_ = list.Refresh(context.Background())

	if err := list.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(list.Items()) != 1 || list.Items()[0].ID != "b" {
		t.Fatalf("items = %v", list.Items())
	}
}

func TestOptimisticDeleteRollsBack(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"), draftItem("b"))
	list := NewContentList(gw, nil)
	_ = list.Refresh(context.Background())

	gw.errDel = errors.New("forbidden")
	if err := list.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected delete failure")
	}
	if len(list.Items()) != 2 {
		t.Fatalf("items = %d, want rollback to 2", len(list.Items()))
	}
}

type stubSource struct {
	videoFns []func(models.VideoStatusUpdate)
	latest   *models.VideoStatusUpdate
}

func (s *stubSource) Connected() bool                                   { return true }
func (s *stubSource) OnVideoStatus(fn func(models.VideoStatusUpdate))   { s.videoFns = append(s.videoFns, fn) }
func (s *stubSource) OnPaymentStatus(fn func(models.PaymentStatusUpdate)) {}
func (s *stubSource) LatestVideoStatus() (models.VideoStatusUpdate, bool) {
	if s.latest == nil {
		return models.VideoStatusUpdate{}, false
	}
	return *s.latest, true
}
func (s *stubSource) LatestPaymentStatus() (models.PaymentStatusUpdate, bool) {
	return models.PaymentStatusUpdate{}, false
}

func TestAttachReplaysLatestEvent(t *testing.T) {
	gw := newFakeGateway()
	gw.seed(draftItem("a"))
	list := NewContentList(gw, nil)
	_ = list.Refresh(context.Background())

	src := &stubSource{latest: &models.VideoStatusUpdate{
		ContentID: "a", Status: models.StatusProcessing, ProgressPercentage: floatPtr(60),
	}}
	list.Attach(src)

	if len(src.videoFns) != 1 {
		t.Fatal("Attach did not subscribe")
	}
	if got := list.Items()[0].Status; got != models.StatusProcessing {
		t.Fatalf("status = %s, latest event not replayed", got)
	}

	// events flowing through the subscription keep patching
	src.videoFns[0](models.VideoStatusUpdate{ContentID: "a", Status: models.StatusCompleted})
	if got := list.Items()[0].Status; got != models.StatusCompleted {
		t.Fatalf("status = %s after pushed event", got)
	}
}
