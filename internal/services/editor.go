package services

import (
	"context"
	"mime/multipart"

	"fundraiser/internal/datautil"
	"fundraiser/internal/domain"
	"fundraiser/internal/events"
	"fundraiser/internal/forms"
)

type SaleItemSaver interface {
	Create(ctx context.Context, item domain.SaleItem) (*domain.SaleItem, error)
	Update(ctx context.Context, item domain.SaleItem) (*domain.SaleItem, error)
}

// UpdateView is the state of one create/edit page.
type UpdateView struct {
	Session  string
	IsSaving bool
	SaleItem *domain.SaleItem
	Form     *forms.SaleItemForm
	// Navigate asks the handler to go back to the previous view.
	Navigate bool
	Err      error
}

func NewUpdateView(sid string, item *domain.SaleItem) *UpdateView {
	return &UpdateView{Session: sid, SaleItem: item, Form: forms.NewSaleItemForm(item)}
}

type SaleItemEditor struct {
	Items  SaleItemSaver
	Events *events.Manager
}

func NewSaleItemEditor(items SaleItemSaver, ev *events.Manager) *SaleItemEditor {
	return &SaleItemEditor{Items: items, Events: ev}
}

// Save updates when the form carries an id and creates otherwise.
func (e *SaleItemEditor) Save(ctx context.Context, v *UpdateView) {
	v.IsSaving = true
	item := v.Form.SaleItem()
	var (
		saved *domain.SaleItem
		err   error
	)
	if item.ID != nil {
		saved, err = e.Items.Update(ctx, item)
	} else {
		saved, err = e.Items.Create(ctx, item)
	}
	e.onSaveResponse(v, saved, err)
}

func (e *SaleItemEditor) onSaveResponse(v *UpdateView, saved *domain.SaleItem, err error) {
	defer func() { v.IsSaving = false }()
	v.Err = err
	if err != nil {
		e.Events.Broadcast(events.Event{
			Name:    events.ErrorEvent,
			Session: v.Session,
			Content: events.AlertError{Message: "The sale item could not be saved. Please try again."},
		})
		return
	}
	v.SaleItem = saved
	v.Navigate = true
}

// SetFileData loads an upload into the form's field. A load failure is
// broadcast as an error event and leaves the field unchanged.
func (e *SaleItemEditor) SetFileData(v *UpdateView, fh *multipart.FileHeader, isImage bool) bool {
	data, ct, err := datautil.LoadFile(fh, isImage)
	if err != nil {
		e.Events.Broadcast(events.Event{
			Name:    events.ErrorEvent,
			Session: v.Session,
			Content: events.AlertError{Message: err.Error()},
		})
		return false
	}
	v.Form.SetFile(data, ct)
	return true
}
