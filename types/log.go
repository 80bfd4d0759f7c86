package types

import (
	"fmt"

	"github.com/umbracle/fastrlp"
)

// Log is an event record emitted by a contract during execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// Receipt summarizes one top-level execution: the emitted logs plus the
// success flag. It is the only artifact that survives the call, so it carries
// an RLP form for callers that archive results.
type Receipt struct {
	Success bool
	Logs    []*Log
}

func (l *Log) MarshalRLPWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewCopyBytes(l.Address[:]))

	topics := ar.NewArray()
	for _, t := range l.Topics {
		topics.Set(ar.NewCopyBytes(t[:]))
	}

	v.Set(topics)
	v.Set(ar.NewCopyBytes(l.Data))

	return v
}

func (l *Log) MarshalRLP() []byte {
	ar := &fastrlp.Arena{}

	return l.MarshalRLPWith(ar).MarshalTo(nil)
}

func (l *Log) UnmarshalRLPFrom(p *fastrlp.Parser, v *fastrlp.Value) error {
	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if len(elems) != 3 {
		return fmt.Errorf("log needs 3 elements, got %d", len(elems))
	}

	if err := elems[0].GetAddr(l.Address[:]); err != nil {
		return err
	}

	topicElems, err := elems[1].GetElems()
	if err != nil {
		return err
	}

	l.Topics = make([]Hash, len(topicElems))
	for i, te := range topicElems {
		if err := te.GetHash(l.Topics[i][:]); err != nil {
			return err
		}
	}

	if l.Data, err = elems[2].GetBytes(l.Data[:0]); err != nil {
		return err
	}

	return nil
}

func (l *Log) UnmarshalRLP(input []byte) error {
	p := &fastrlp.Parser{}

	v, err := p.Parse(input)
	if err != nil {
		return err
	}

	return l.UnmarshalRLPFrom(p, v)
}

func (r *Receipt) MarshalRLPWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()

	if r.Success {
		v.Set(ar.NewUint(1))
	} else {
		v.Set(ar.NewUint(0))
	}

	logs := ar.NewArray()
	for _, l := range r.Logs {
		logs.Set(l.MarshalRLPWith(ar))
	}

	v.Set(logs)

	return v
}

func (r *Receipt) MarshalRLP() []byte {
	ar := &fastrlp.Arena{}

	return r.MarshalRLPWith(ar).MarshalTo(nil)
}

func (r *Receipt) UnmarshalRLP(input []byte) error {
	p := &fastrlp.Parser{}

	v, err := p.Parse(input)
	if err != nil {
		return err
	}

	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if len(elems) != 2 {
		return fmt.Errorf("receipt needs 2 elements, got %d", len(elems))
	}

	status, err := elems[0].GetUint64()
	if err != nil {
		return err
	}

	r.Success = status == 1

	logElems, err := elems[1].GetElems()
	if err != nil {
		return err
	}

	r.Logs = make([]*Log, len(logElems))
	for i, le := range logElems {
		log := &Log{}
		if err := log.UnmarshalRLPFrom(p, le); err != nil {
			return err
		}

		r.Logs[i] = log
	}

	return nil
}
