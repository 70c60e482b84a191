package contentstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Mutation is one entry of a mutate request body
type Mutation map[string]any

// CreateMutation creates a document, generating an id unless _id is set
func CreateMutation(doc any) Mutation {
	return Mutation{"create": doc}
}

// DeleteMutation deletes the document with the given id
func DeleteMutation(id string) Mutation {
	return Mutation{"delete": map[string]string{"id": id}}
}

// PatchMutation sets and unsets fields on an existing document
func PatchMutation(id string, set map[string]any, unset []string) Mutation {
	patch := map[string]any{"id": id}
	if len(set) > 0 {
		patch["set"] = set
	}
	if len(unset) > 0 {
		patch["unset"] = unset
	}
	return Mutation{"patch": patch}
}

// MutationResult is the response to a mutate request
type MutationResult struct {
	TransactionID string          `json:"transactionId"`
	Results       []MutatedResult `json:"results"`
}

// MutatedResult describes a single mutated document
type MutatedResult struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Document  json.RawMessage `json:"document,omitempty"`
}

func (r *MutationResult) first() (*MutatedResult, error) {
	if len(r.Results) == 0 {
		return nil, fmt.Errorf("%w: no mutation results", ErrInvalidResponse)
	}
	return &r.Results[0], nil
}

func (r *MutatedResult) decode(out any) error {
	if out == nil || len(r.Document) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Document, out); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", r.ID, err)
	}
	return nil
}

// Patch accumulates field changes for one document
type Patch struct {
	client *Client
	id     string
	set    map[string]any
	unset  []string
}

// Set merges fields into the patch
func (p *Patch) Set(fields map[string]any) *Patch {
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

// Unset removes the given attribute paths
func (p *Patch) Unset(paths ...string) *Patch {
	p.unset = append(p.unset, paths...)
	return p
}

// Mutation returns the patch as a mutation for use in a transaction
func (p *Patch) Mutation() Mutation {
	return PatchMutation(p.id, p.set, p.unset)
}

// Commit applies the patch and decodes the patched document into out
func (p *Patch) Commit(ctx context.Context, out any) error {
	if len(p.set) == 0 && len(p.unset) == 0 {
		return ErrEmptyMutation
	}
	result, err := p.client.mutate(ctx, []Mutation{p.Mutation()})
	if err != nil {
		return err
	}
	first, err := result.first()
	if err != nil {
		return err
	}
	return first.decode(out)
}

// Transaction groups mutations that the content store applies atomically
type Transaction struct {
	client    *Client
	mutations []Mutation
}

// Create adds a create mutation
func (t *Transaction) Create(doc any) *Transaction {
	t.mutations = append(t.mutations, CreateMutation(doc))
	return t
}

// Delete adds a delete mutation
func (t *Transaction) Delete(id string) *Transaction {
	t.mutations = append(t.mutations, DeleteMutation(id))
	return t
}

// Patch adds a patch built with Client.Patch
func (t *Transaction) Patch(p *Patch) *Transaction {
	t.mutations = append(t.mutations, p.Mutation())
	return t
}

// Len returns the number of queued mutations
func (t *Transaction) Len() int {
	return len(t.mutations)
}

// Commit sends all queued mutations in one request
func (t *Transaction) Commit(ctx context.Context) (*MutationResult, error) {
	if len(t.mutations) == 0 {
		return nil, ErrEmptyMutation
	}
	return t.client.mutate(ctx, t.mutations)
}
