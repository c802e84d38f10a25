package fakegithub

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// User is the minimal user object embedded in resources.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// Label is a repository label.
type Label struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
}

// Issue is a stored issue.
type Issue struct {
	ID        int64      `json:"id"`
	Number    int64      `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	State     string     `json:"state"`
	Locked    bool       `json:"locked"`
	User      User       `json:"user"`
	Assignee  *User      `json:"assignee"`
	Assignees []User     `json:"assignees"`
	Labels    []Label    `json:"labels"`
	Comments  int        `json:"comments"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// Comment is a stored issue comment.
type Comment struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	issue int64
}

type repository struct {
	issues   map[int64]*Issue
	comments map[int64]*Comment
	labels   map[string]Label
	next     int64
}

// Store holds repositories in memory. It is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	repos         map[string]*repository
	collaborators map[string]User
	viewer        User
	ids           int64
	now           func() time.Time
}

// NewStore returns a store that knows the user "octocat".
func NewStore() *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC().Truncate(time.Second) }}
	s.Reset()
	return s
}

// Reset drops every repository.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewer = User{Login: "octocat", ID: 1}
	s.repos = map[string]*repository{}
	s.collaborators = map[string]User{s.viewer.Login: s.viewer}
	s.ids = 1000
}

// AddRepository creates an empty repository. Existing repositories are kept.
func (s *Store) AddRepository(owner, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := owner + "/" + name
	if _, ok := s.repos[key]; ok {
		return
	}
	s.repos[key] = &repository{
		issues:   map[int64]*Issue{},
		comments: map[int64]*Comment{},
		labels:   map[string]Label{},
	}
}

// AddCollaborator makes login a valid assignee.
func (s *Store) AddCollaborator(login string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids++
	s.collaborators[login] = User{Login: login, ID: s.ids}
}

// AddLabel defines a repository label.
func (s *Store) AddLabel(owner, name, label, color string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return false
	}

	s.ids++
	repo.labels[label] = Label{ID: s.ids, Name: label, Color: color}
	return true
}

// Issue returns a copy of the issue, or false when it does not exist.
func (s *Store) Issue(owner, name string, number int64) (Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return Issue{}, false
	}
	iss, ok := repo.issues[number]
	if !ok {
		return Issue{}, false
	}
	return cloneIssue(iss), true
}

// IssueCount returns the number of issues in a repository.
func (s *Store) IssueCount(owner, name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if repo := s.repo(owner, name); repo != nil {
		return len(repo.issues)
	}
	return 0
}

func (s *Store) hasRepository(owner, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.repo(owner, name) != nil
}

func (s *Store) listIssues(owner, name, state string) ([]Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return nil, false
	}

	out := make([]Issue, 0, len(repo.issues))
	for _, iss := range repo.issues {
		if state != "all" && iss.State != state {
			continue
		}
		out = append(out, cloneIssue(iss))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })

	return out, true
}

// issueInput is what create and edit accept. Nil fields are left unchanged.
type issueInput struct {
	Title     *string   `json:"title"`
	Body      *string   `json:"body"`
	State     *string   `json:"state"`
	Assignee  *string   `json:"assignee"`
	Assignees *[]string `json:"assignees"`
	Labels    *[]string `json:"labels"`
}

func (s *Store) createIssue(owner, name string, in issueInput) (Issue, []fieldError, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return Issue{}, nil, false
	}

	if in.Title == nil || *in.Title == "" {
		return Issue{}, []fieldError{{Resource: "Issue", Field: "title", Code: "missing_field"}}, true
	}

	now := s.now()
	repo.next++
	s.ids++
	iss := &Issue{
		ID:        s.ids,
		Number:    repo.next,
		State:     "open",
		User:      s.viewer,
		Assignees: []User{},
		Labels:    []Label{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if errs := s.apply(repo, iss, in); len(errs) > 0 {
		repo.next--
		return Issue{}, errs, true
	}
	repo.issues[iss.Number] = iss

	return cloneIssue(iss), nil, true
}

func (s *Store) editIssue(owner, name string, number int64, in issueInput) (Issue, []fieldError, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return Issue{}, nil, false
	}
	iss, ok := repo.issues[number]
	if !ok {
		return Issue{}, nil, false
	}

	if in.Title != nil && *in.Title == "" {
		return Issue{}, []fieldError{{Resource: "Issue", Field: "title", Code: "missing_field"}}, true
	}

	updated := cloneIssue(iss)
	if errs := s.apply(repo, &updated, in); len(errs) > 0 {
		return Issue{}, errs, true
	}
	updated.UpdatedAt = s.now()
	*iss = updated

	return cloneIssue(iss), nil, true
}

// apply copies set fields of in onto iss, creating unknown labels on the fly.
func (s *Store) apply(repo *repository, iss *Issue, in issueInput) []fieldError {
	if in.Title != nil {
		iss.Title = *in.Title
	}
	if in.Body != nil {
		iss.Body = *in.Body
	}

	if in.State != nil {
		switch *in.State {
		case "open":
			iss.State, iss.ClosedAt = "open", nil
		case "closed":
			if iss.State != "closed" {
				closed := s.now()
				iss.State, iss.ClosedAt = "closed", &closed
			}
		default:
			return []fieldError{{Resource: "Issue", Field: "state", Code: "invalid"}}
		}
	}

	var logins []string
	if in.Assignee != nil && *in.Assignee != "" {
		logins = append(logins, *in.Assignee)
	}
	if in.Assignees != nil {
		logins = append(logins, *in.Assignees...)
	}
	if in.Assignee != nil || in.Assignees != nil {
		assignees := make([]User, 0, len(logins))
		for _, login := range logins {
			user, ok := s.collaborators[login]
			if !ok {
				return []fieldError{{Resource: "Issue", Field: "assignee", Code: "invalid"}}
			}
			assignees = append(assignees, user)
		}
		iss.Assignees = assignees
		iss.Assignee = nil
		if len(assignees) > 0 {
			iss.Assignee = &assignees[0]
		}
	}

	if in.Labels != nil {
		iss.Labels = s.resolveLabels(repo, *in.Labels)
	}

	return nil
}

func (s *Store) resolveLabels(repo *repository, names []string) []Label {
	out := make([]Label, 0, len(names))
	for _, name := range names {
		label, ok := repo.labels[name]
		if !ok {
			s.ids++
			label = Label{ID: s.ids, Name: name, Color: "ededed"}
			repo.labels[name] = label
		}
		if !slices.ContainsFunc(out, func(l Label) bool { return l.Name == name }) {
			out = append(out, label)
		}
	}
	return out
}

func (s *Store) addIssueLabels(owner, name string, number int64, names []string) ([]Label, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return nil, false
	}
	iss, ok := repo.issues[number]
	if !ok {
		return nil, false
	}

	current := make([]string, 0, len(iss.Labels)+len(names))
	for _, l := range iss.Labels {
		current = append(current, l.Name)
	}
	iss.Labels = s.resolveLabels(repo, append(current, names...))
	iss.UpdatedAt = s.now()

	return slices.Clone(iss.Labels), true
}

func (s *Store) removeIssueLabel(owner, name string, number int64, label string) ([]Label, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return nil, false
	}
	iss, ok := repo.issues[number]
	if !ok {
		return nil, false
	}

	idx := slices.IndexFunc(iss.Labels, func(l Label) bool { return l.Name == label })
	if idx < 0 {
		return nil, false
	}
	iss.Labels = slices.Delete(iss.Labels, idx, idx+1)

	return slices.Clone(iss.Labels), true
}

func (s *Store) issueLabels(owner, name string, number int64) ([]Label, bool) {
	iss, ok := s.Issue(owner, name, number)
	if !ok {
		return nil, false
	}
	return iss.Labels, true
}

func (s *Store) createComment(owner, name string, number int64, body string) (Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return Comment{}, false
	}
	iss, ok := repo.issues[number]
	if !ok {
		return Comment{}, false
	}

	now := s.now()
	s.ids++
	c := &Comment{ID: s.ids, Body: body, User: s.viewer, CreatedAt: now, UpdatedAt: now, issue: number}
	repo.comments[c.ID] = c
	iss.Comments++

	return *c, true
}

func (s *Store) listComments(owner, name string, number int64) ([]Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repo := s.repo(owner, name)
	if repo == nil {
		return nil, false
	}
	if _, ok := repo.issues[number]; !ok {
		return nil, false
	}

	out := []Comment{}
	for _, c := range repo.comments {
		if c.issue == number {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, true
}

// repo must be called with the lock held.
func (s *Store) repo(owner, name string) *repository {
	return s.repos[owner+"/"+name]
}

func cloneIssue(iss *Issue) Issue {
	out := *iss
	out.Assignees = slices.Clone(iss.Assignees)
	out.Labels = slices.Clone(iss.Labels)
	if iss.Assignee != nil {
		a := *iss.Assignee
		out.Assignee = &a
	}
	if iss.ClosedAt != nil {
		t := *iss.ClosedAt
		out.ClosedAt = &t
	}
	return out
}
