package fakeapi

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrDuplicate = errors.New("a post with that id already exists")
)

// Post is the resource served by the fake API.
type Post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// SeedPosts generates n posts with IDs 1 through n, ten to a user.
func SeedPosts(n int) []Post {
	posts := make([]Post, 0, n)
	for id := 1; id <= n; id++ {
		posts = append(posts, Post{
			ID:     id,
			Title:  "seed post title",
			Body:   "seed post body",
			UserID: (id-1)/10 + 1,
		})
	}
	return posts
}

// Store is an in-memory post collection, safe for concurrent use.
type Store struct {
	posts map[int]Post
	lock  sync.RWMutex
}

func NewStore(seed []Post) *Store {
	s := &Store{posts: make(map[int]Post, len(seed))}
	for _, p := range seed {
		s.posts[p.ID] = p
	}
	return s
}

// List returns posts sorted by ID. If userID is non-nil, only that user's posts are included.
func (s *Store) List(userID *int) []Post {
	s.lock.RLock()
	ret := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		if userID == nil || p.UserID == *userID {
			ret = append(ret, p)
		}
	}
	s.lock.RUnlock()
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	return ret
}

func (s *Store) Get(id int) (Post, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// Create adds a post. If p.ID is zero, the next ID after the current maximum is assigned.
func (s *Store) Create(p Post) (Post, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if p.ID == 0 {
		for id := range s.posts {
			if id > p.ID {
				p.ID = id
			}
		}
		p.ID++
	} else if _, exists := s.posts[p.ID]; exists {
		return Post{}, ErrDuplicate
	}
	s.posts[p.ID] = p
	return p, nil
}

// Replace overwrites an existing post, keeping its ID.
func (s *Store) Replace(id int, p Post) (Post, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exists := s.posts[id]; !exists {
		return Post{}, ErrNotFound
	}
	p.ID = id
	s.posts[id] = p
	return p, nil
}

func (s *Store) Delete(id int) (Post, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	p, exists := s.posts[id]
	if !exists {
		return Post{}, ErrNotFound
	}
	delete(s.posts, id)
	return p, nil
}
