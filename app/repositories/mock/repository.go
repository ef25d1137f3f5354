package mock

import (
	"context"
	"sort"
	"sync"

	"blogapi/app/models"
	"blogapi/app/repositories"
)

// Store is an in-memory repositories.Store. Setting Err makes every call
// fail with it, which lets tests exercise persistence failures.
type Store struct {
	mutex         sync.RWMutex
	posts         map[int]*models.Post
	comments      map[int]*models.Comment
	nextPostID    int
	nextCommentID int

	Err error
}

type PostRepository struct {
	s *Store
}

type CommentRepository struct {
	s *Store
}

func NewStore() *Store {
	s := &Store{}
	s.Clear()
	return s
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.posts = make(map[int]*models.Post)
	s.comments = make(map[int]*models.Comment)
	s.nextPostID = 1
	s.nextCommentID = 1
}

func (s *Store) Posts() repositories.PostRepository {
	return &PostRepository{s: s}
}

func (s *Store) Comments() repositories.CommentRepository {
	return &CommentRepository{s: s}
}

func (s *Store) Close() error {
	return nil
}

// PostCount reports how many posts are stored.
func (s *Store) PostCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.posts)
}

// CommentCount reports how many comments are stored.
func (s *Store) CommentCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.comments)
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	post.ID = m.s.nextPostID
	m.s.nextPostID++
	stored := *post
	m.s.posts[post.ID] = &stored
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	post, exists := m.s.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	p := *post
	return &p, nil
}

func (m *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	posts := []*models.Post{}
	for id := 1; id < m.s.nextPostID; id++ {
		if post, exists := m.s.posts[id]; exists {
			p := *post
			posts = append(posts, &p)
		}
	}
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, post *models.Post) (int, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return 0, m.s.Err
	}

	if _, exists := m.s.posts[post.ID]; !exists {
		return 0, repositories.ErrNotFound
	}
	stored := *post
	m.s.posts[post.ID] = &stored
	return 1, nil
}

func (m *PostRepository) Delete(ctx context.Context, id int) (int, error) {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return 0, m.s.Err
	}

	if _, exists := m.s.posts[id]; !exists {
		return 0, repositories.ErrNotFound
	}
	for cid, c := range m.s.comments {
		if c.PostID == id {
			delete(m.s.comments, cid)
		}
	}
	delete(m.s.posts, id)
	return 1, nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.s.mutex.Lock()
	defer m.s.mutex.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}

	post, exists := m.s.posts[comment.PostID]
	if !exists {
		return repositories.ErrNotFound
	}
	comment.ID = m.s.nextCommentID
	comment.Post = post.Title
	m.s.nextCommentID++
	stored := *comment
	m.s.comments[comment.ID] = &stored
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	comment, exists := m.s.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *comment
	return &c, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	m.s.mutex.RLock()
	defer m.s.mutex.RUnlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}

	comments := []*models.Comment{}
	for _, comment := range m.s.comments {
		if comment.PostID == postID {
			c := *comment
			if post, ok := m.s.posts[postID]; ok {
				c.Post = post.Title
			}
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}
