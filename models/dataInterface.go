package models

// Data is implemented by models loadable by primary key through the request
// dataloaders.
type Data interface {
	GetId() int
	GetDefault(id int) any
}

// RelatedData is implemented by models loaded in batches keyed by a parent id.
type RelatedData interface {
	GetReferenceId() int
}
