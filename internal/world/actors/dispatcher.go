package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"Settlers/internal/shared/actor/messages"
	"Settlers/internal/shared/transport"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleApplyTick)
	register(d, SH.HandleQueryDigest)
	register(d, SH.HandleSetControlAll)
	register(d, SH.HandleMarkLost)
	register(d, SH.HandleFindMineTarget)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *SessionActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *SessionActor, req messages.SessionMessage) {
	if req == nil {
		ctx.Respond(fail(transport.InvalidParam, "nil req"))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(transport.InvalidParam, "no handler for request body"))
		return
	}

	if bodyType != handler.reqType {
		ctx.Respond(fail(transport.InvalidParam, "request body type mismatch"))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
