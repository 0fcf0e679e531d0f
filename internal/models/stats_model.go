package models

// NamedCount é uma linha de agrupamento ({_id: chave, count: n}).
type NamedCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

type ProviderStats struct {
	Total      int64        `json:"total"`
	Verified   int64        `json:"verified"`
	Unverified int64        `json:"unverified"`
	ByCategory []NamedCount `json:"byCategory"`
	ByCity     []NamedCount `json:"byCity"`
}
