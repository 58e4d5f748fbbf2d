package services

import "github.com/jupiterclapton/murmure/internal/core/query"

// Schemas de requête déclarés par ressource. Les clés de filtre absentes
// d'un schema sont ignorées par le moteur ; les bornes de pagination
// viennent de la ressource, pas du client.

var postSchema = query.Schema{
	Filters: map[string]query.Match{
		"title":     query.MatchContains,
		"content":   query.MatchContains,
		"author":    query.MatchExact, // username de l'auteur
		"author_id": query.MatchExact,
	},
	SearchFields:    []string{"title", "content", "author"},
	OrderFields:     []string{"created_at", "updated_at", "title"},
	DefaultOrdering: "-created_at",
	DefaultPageSize: 10,
	MaxPageSize:     100,
}

var commentSchema = query.Schema{
	Filters: map[string]query.Match{
		"post_id":   query.MatchExact,
		"author_id": query.MatchExact,
		"content":   query.MatchContains,
	},
	SearchFields:    []string{"content"},
	OrderFields:     []string{"created_at", "updated_at"},
	DefaultOrdering: "created_at",
	DefaultPageSize: 20,
	MaxPageSize:     100,
}

// Le feed partage les champs des posts mais avec ses propres bornes,
// et son défaut "-created_at" ne peut être remplacé que par un ordre
// déclaré ici.
var feedSchema = query.Schema{
	Filters: map[string]query.Match{
		"title":     query.MatchContains,
		"content":   query.MatchContains,
		"author_id": query.MatchExact,
	},
	SearchFields:    []string{"title", "content"},
	OrderFields:     []string{"created_at", "updated_at", "title"},
	DefaultOrdering: "-created_at",
	DefaultPageSize: 15,
	MaxPageSize:     50,
}

var followListSchema = query.Schema{
	Filters: map[string]query.Match{
		"username": query.MatchContains,
	},
	SearchFields:    []string{"username"},
	OrderFields:     []string{"username", "created_at", "followed_at"},
	DefaultOrdering: "username",
	DefaultPageSize: 20,
	MaxPageSize:     100,
}

var notificationSchema = query.Schema{
	Filters: map[string]query.Match{
		"unread": query.MatchExact, // "true" / "false"
		"type":   query.MatchExact,
	},
	SearchFields:    nil,
	OrderFields:     []string{"created_at"},
	DefaultOrdering: "-created_at",
	DefaultPageSize: 20,
	MaxPageSize:     100,
}
