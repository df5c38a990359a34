// Package view bridges the tree model and the expansion store to the
// contract a rendering host consumes.
package view

import (
	"context"

	"foldertree/internal/model"
	"foldertree/internal/signal"
	"foldertree/internal/state"
	"foldertree/internal/tree"
)

// Host is the contract a rendering host drives: it asks for children and
// per-node visual state, reports expand/collapse interactions, and listens
// for invalidations to know when to re-query.
type Host interface {
	Children(ctx context.Context, parent *model.Node) []model.Node
	VisualState(node model.Node) model.VisualState
	Expand(id string)
	Collapse(id string)
	Subscribe() (<-chan struct{}, func())
}

// Source is anything that publishes refresh signals, such as a watch manager.
type Source interface {
	Subscribe() (<-chan struct{}, func())
}

// Adapter implements Host over a tree model and an expansion store.
type Adapter struct {
	tree      *tree.Model
	expansion *state.Expansion
	signals   *signal.Broadcaster
}

var _ Host = (*Adapter)(nil)

// New creates an Adapter.
func New(treeModel *tree.Model, expansion *state.Expansion) *Adapter {
	return &Adapter{
		tree:      treeModel,
		expansion: expansion,
		signals:   signal.New(),
	}
}

// Follow forwards every signal from source as an invalidation until ctx is
// done or the source closes its channel.
func (a *Adapter) Follow(ctx context.Context, source Source) {
	ch, cancel := source.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return
				}
				a.Refresh()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Children lists the children of parent; nil means the root pseudo-node.
func (a *Adapter) Children(ctx context.Context, parent *model.Node) []model.Node {
	return a.tree.ListChildren(ctx, parent)
}

// VisualState derives the node's descriptor. The expanded flag is read from
// the expansion store on every call and never cached here.
func (a *Adapter) VisualState(node model.Node) model.VisualState {
	vs := model.VisualState{
		Label:        node.Name,
		ID:           node.ID(),
		ContextValue: node.ContextValue(),
	}
	if node.IsDir {
		vs.Expandable = true
		vs.Expanded = a.expansion.IsExpanded(vs.ID)
		vs.DefaultAction = model.ActionNone
	} else {
		vs.DefaultAction = model.ActionOpen
	}
	vs.Icon = model.IconFor(node, vs.Expanded)
	return vs
}

// Expand records that the user expanded id.
func (a *Adapter) Expand(id string) {
	if id == "" {
		return
	}
	a.expansion.MarkExpanded(id)
	a.Refresh()
}

// Collapse records that the user collapsed id.
func (a *Adapter) Collapse(id string) {
	if id == "" {
		return
	}
	a.expansion.MarkCollapsed(id)
	a.Refresh()
}

// Refresh raises an invalidation. It never touches expansion state.
func (a *Adapter) Refresh() {
	a.signals.Notify()
}

// Subscribe returns the invalidation channel and its cancel func.
func (a *Adapter) Subscribe() (<-chan struct{}, func()) {
	return a.signals.Subscribe()
}

// Close closes all invalidation subscriptions.
func (a *Adapter) Close() {
	a.signals.Close()
}
