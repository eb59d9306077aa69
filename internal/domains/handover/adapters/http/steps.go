package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/novamind-digital/immo/internal/domains/handover/adapters/http/mapper"
	"github.com/novamind-digital/immo/internal/domains/handover/application"
	"github.com/novamind-digital/immo/internal/domains/handover/domain"
)

// errWrongKind rejects list operations on record steps and vice versa.
var errWrongKind = errors.New("operation not supported by step kind")

// endpoint erases the step type so one set of routes can serve every section.
type endpoint interface {
	view() mapper.Step
	patch(raw []byte) error
	replace(raw []byte) error
	add(raw []byte) error
	update(index int, raw []byte) error
	remove(index int) error
}

type sectionPatch[T any] interface {
	domain.SectionPatch
	ApplyTo(T) T
}

type recordEndpoint[T any, P sectionPatch[T]] struct {
	step *application.RecordStep[T, P]
}

func (e recordEndpoint[T, P]) view() mapper.Step {
	v := e.step.View()
	return mapper.Step{Step: string(v.Step), Kind: domain.KindRecord.String(), Data: v.Data, Loading: v.Loading, Error: v.Error, Dirty: v.Dirty}
}

func (e recordEndpoint[T, P]) patch(raw []byte) error {
	var p P
	if err := decode(raw, &p); err != nil {
		return err
	}
	return e.step.UpdateData(p)
}

func (recordEndpoint[T, P]) replace([]byte) error     { return errWrongKind }
func (recordEndpoint[T, P]) add([]byte) error         { return errWrongKind }
func (recordEndpoint[T, P]) update(int, []byte) error { return errWrongKind }
func (recordEndpoint[T, P]) remove(int) error         { return errWrongKind }

type itemList[T any] interface {
	~[]T
	domain.ListSection
}

type listEndpoint[T domain.Item[T], L itemList[T], IP domain.ItemPatch[T]] struct {
	step *application.ListStep[T, L]
}

func (e listEndpoint[T, L, IP]) view() mapper.Step {
	v := e.step.View()
	return mapper.Step{Step: string(v.Step), Kind: domain.KindList.String(), Data: v.Data, Loading: v.Loading, Error: v.Error, Dirty: v.Dirty}
}

func (listEndpoint[T, L, IP]) patch([]byte) error { return errWrongKind }

func (e listEndpoint[T, L, IP]) replace(raw []byte) error {
	var items L
	if err := decode(raw, &items); err != nil {
		return err
	}
	return e.step.ReplaceAll(items)
}

func (e listEndpoint[T, L, IP]) add(raw []byte) error {
	var item T
	if err := decode(raw, &item); err != nil {
		return err
	}
	return e.step.AddItem(item)
}

func (e listEndpoint[T, L, IP]) update(index int, raw []byte) error {
	var p IP
	if err := decode(raw, &p); err != nil {
		return err
	}
	return e.step.UpdateItem(index, p)
}

func (e listEndpoint[T, L, IP]) remove(index int) error {
	return e.step.RemoveItem(index)
}

// errBadPayload marks request bodies that do not decode into the step's types.
var errBadPayload = errors.New("malformed step payload")

func decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", errBadPayload, err)
	}
	return nil
}

func endpointFor(ctx context.Context, sess *application.Session, step domain.StepKey) (endpoint, error) {
	switch step {
	case domain.StepGeneral:
		return recordEndpoint[domain.General, domain.GeneralPatch]{sess.General(ctx)}, nil
	case domain.StepProperty:
		return recordEndpoint[domain.Property, domain.PropertyPatch]{sess.Property(ctx)}, nil
	case domain.StepCondition:
		return recordEndpoint[domain.Condition, domain.ConditionPatch]{sess.Condition(ctx)}, nil
	case domain.StepScheduling:
		return recordEndpoint[domain.Scheduling, domain.SchedulingPatch]{sess.Scheduling(ctx)}, nil
	case domain.StepSignatures:
		return recordEndpoint[domain.Signatures, domain.SignaturesPatch]{sess.Signatures(ctx)}, nil
	case domain.StepMeters:
		return listEndpoint[domain.Meter, domain.Meters, domain.MeterPatch]{sess.Meters(ctx)}, nil
	case domain.StepKeys:
		return listEndpoint[domain.Key, domain.Keys, domain.KeyPatch]{sess.Keys(ctx)}, nil
	case domain.StepPhotos:
		return listEndpoint[domain.Photo, domain.Photos, domain.PhotoPatch]{sess.Photos(ctx)}, nil
	case domain.StepAgreements:
		return listEndpoint[domain.Agreement, domain.Agreements, domain.AgreementPatch]{sess.Agreements(ctx)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStep, step)
	}
}
