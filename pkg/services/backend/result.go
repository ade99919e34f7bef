package backend

import (
	"fmt"
)

// Kind classifies the outcome of one backend call
type Kind string

const (
	KindOK        Kind = "ok"
	KindEmpty     Kind = "empty"     // 2xx without data
	KindRejected  Kind = "rejected"  // non-2xx status
	KindTransport Kind = "transport" // network, timeout or malformed payload
)

// Result is Success{Payload} or Failure{Kind, Detail}
type Result[T any] struct {
	Kind    Kind
	Payload T
	Status  int
	Detail  string
}

func (r Result[T]) OK() bool { return r.Kind == KindOK }

// Failed reports a rejection or a transport failure, an empty result is not a failure
func (r Result[T]) Failed() bool {
	return r.Kind == KindRejected || r.Kind == KindTransport
}

func (r Result[T]) String() string {
	if r.OK() {
		return fmt.Sprintf("ok(%d)", r.Status)
	}
	return fmt.Sprintf("%s(%d): %s", r.Kind, r.Status, r.Detail)
}

func success[T any](status int, payload T) Result[T] {
	return Result[T]{Kind: KindOK, Status: status, Payload: payload}
}

func empty[T any](status int) Result[T] {
	return Result[T]{Kind: KindEmpty, Status: status}
}

func rejected[T any](status int, body string) Result[T] {
	return Result[T]{Kind: KindRejected, Status: status, Detail: body}
}

func transport[T any](err error) Result[T] {
	return Result[T]{Kind: KindTransport, Detail: err.Error()}
}
