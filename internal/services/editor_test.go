package services_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"fundraiser/internal/domain"
	"fundraiser/internal/events"
	"fundraiser/internal/services"
)

type fakeSaver struct {
	created, updated []domain.SaleItem
	err              error
}

func (f *fakeSaver) Create(_ context.Context, it domain.SaleItem) (*domain.SaleItem, error) {
	f.created = append(f.created, it)
	if f.err != nil {
		return nil, f.err
	}
	it.ID = ptr(int64(42))
	return &it, nil
}

func (f *fakeSaver) Update(_ context.Context, it domain.SaleItem) (*domain.SaleItem, error) {
	f.updated = append(f.updated, it)
	if f.err != nil {
		return nil, f.err
	}
	return &it, nil
}

func bind(v *services.UpdateView, raw string) {
	q, _ := url.ParseQuery(raw)
	v.Form.Bind(q.Get)
}

func TestEditor_CreateNavigatesBack(t *testing.T) {
	saver := &fakeSaver{}
	ed := services.NewSaleItemEditor(saver, events.NewManager())
	v := services.NewUpdateView("s1", nil)
	bind(v, "name=n&price=1&type=EDIBLE")
	v.Form.SetFile([]byte("x"), "image/png")

	ed.Save(context.Background(), v)
	if len(saver.created) != 1 || len(saver.updated) != 0 {
		t.Fatalf("create expected, got created=%d updated=%d", len(saver.created), len(saver.updated))
	}
	if v.IsSaving || !v.Navigate || v.Err != nil {
		t.Fatalf("unexpected view %+v", v)
	}
	if *v.SaleItem.ID != 42 {
		t.Fatalf("saved entity id %v", v.SaleItem.ID)
	}
}

func TestEditor_UpdateWhenIDCarried(t *testing.T) {
	saver := &fakeSaver{}
	ed := services.NewSaleItemEditor(saver, events.NewManager())
	v := services.NewUpdateView("s1", &domain.SaleItem{ID: ptr(int64(7)), Name: "a", Price: 1, Type: domain.Edible, Image: []byte("x")})

	ed.Save(context.Background(), v)
	if len(saver.updated) != 1 || *saver.updated[0].ID != 7 {
		t.Fatalf("update expected, got %+v", saver.updated)
	}
}

func TestEditor_ErrorBroadcastsAndStays(t *testing.T) {
	saver := &fakeSaver{err: errors.New("boom")}
	bus := events.NewManager()
	alerts := events.NewAlertStore(bus)
	ed := services.NewSaleItemEditor(saver, bus)
	v := services.NewUpdateView("s1", nil)

	ed.Save(context.Background(), v)
	if v.IsSaving || v.Navigate || v.Err == nil {
		t.Fatalf("unexpected view %+v", v)
	}
	if got := alerts.Take("s1"); len(got) != 1 {
		t.Fatalf("one alert expected, got %v", got)
	}
}

func TestEditor_SetFileDataFailureBroadcasts(t *testing.T) {
	bus := events.NewManager()
	alerts := events.NewAlertStore(bus)
	ed := services.NewSaleItemEditor(&fakeSaver{}, bus)
	v := services.NewUpdateView("s1", nil)

	if ed.SetFileData(v, nil, true) {
		t.Fatal("nil file should fail")
	}
	if got := alerts.Take("s1"); len(got) != 1 {
		t.Fatalf("one alert expected, got %v", got)
	}
}
