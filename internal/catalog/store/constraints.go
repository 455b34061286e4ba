package store

// Constraint describes what a violated constraint protects. Field names the
// conflicting column(s) of a unique constraint. Entity names the row a foreign
// key points at. Dependent names the rows still pointing at a row that is being
// deleted.
type Constraint struct {
	Field     string
	Entity    string
	Dependent string
}

// constraints is keyed by the names declared in the postgres migrations.
var constraints = map[string]Constraint{
	"roles_name_key":                {Field: "name"},
	"users_username_key":            {Field: "username"},
	"users_role_id_fkey":            {Entity: "role", Dependent: "user"},
	"genres_name_key":               {Field: "name"},
	"author_genre_pkey":             {Field: "author_id,genre_id"},
	"author_genre_author_id_fkey":   {Entity: "author"},
	"author_genre_genre_id_fkey":    {Entity: "genre"},
	"categories_name_key":           {Field: "name"},
	"books_genre_id_fkey":           {Entity: "genre", Dependent: "book"},
	"books_category_id_fkey":        {Entity: "category", Dependent: "book"},
	"author_book_pkey":              {Field: "author_id,book_id"},
	"author_book_author_id_fkey":    {Entity: "author"},
	"author_book_book_id_fkey":      {Entity: "book"},
	"reviews_user_id_fkey":          {Entity: "user"},
	"reviews_book_id_fkey":          {Entity: "book"},
	"favorites_user_id_book_id_key": {Field: "user_id,book_id"},
	"favorites_user_id_fkey":        {Entity: "user"},
	"favorites_book_id_fkey":        {Entity: "book"},
}

// tableDefaults covers engines that report the violated table but not the
// constraint (sqlite). Each table has at most one constraint of each kind that
// a write from the application can trip; the others reference rows the
// services have already resolved.
var tableDefaults = map[string]map[ViolationKind]Constraint{
	"roles": {
		ViolationUnique: {Field: "name"},
	},
	"users": {
		ViolationUnique:     {Field: "username"},
		ViolationForeignKey: {Entity: "role", Dependent: "user"},
	},
	"genres": {
		ViolationUnique:     {Field: "name"},
		ViolationForeignKey: {Entity: "genre", Dependent: "book"},
	},
	"categories": {
		ViolationUnique:     {Field: "name"},
		ViolationForeignKey: {Entity: "category", Dependent: "book"},
	},
	"author_genre": {
		ViolationUnique:     {Field: "author_id,genre_id"},
		ViolationForeignKey: {Entity: "genre"},
	},
	"books": {
		ViolationForeignKey: {Entity: "genre", Dependent: "book"},
	},
	"author_book": {
		ViolationUnique:     {Field: "author_id,book_id"},
		ViolationForeignKey: {Entity: "author"},
	},
	// The author's user row is checked inside the same unit of work before
	// the insert, leaving the book as the only reference that can fail.
	"reviews": {
		ViolationForeignKey: {Entity: "book"},
	},
	// Same as reviews: the user row is checked before the insert.
	"favorites": {
		ViolationUnique:     {Field: "user_id,book_id"},
		ViolationForeignKey: {Entity: "book"},
	},
}

// ResolveConstraint maps a violation to the field or entity it concerns. The
// reported constraint name wins; otherwise the table default for the
// violation kind applies. For a foreign-key violation raised by a delete,
// Entity is replaced by the dependent side.
func ResolveConstraint(v *Violation) Constraint {
	c, ok := constraints[v.Constraint]
	if !ok {
		c, ok = tableDefaults[v.Table][v.Kind]
	}
	if !ok {
		c = Constraint{Field: v.Table, Entity: v.Table}
	}

	if v.Kind == ViolationForeignKey && v.Op == OpDelete && c.Dependent != "" {
		c.Entity = c.Dependent
	}
	return c
}
