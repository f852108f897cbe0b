package service

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/manualhttp/manualhttp-go-client/internal/domain/model"
)

// DomainStore holds the cookies of one domain keyed by name
type DomainStore struct {
	cookies map[string]model.Cookie
}

func newDomainStore() *DomainStore {
	return &DomainStore{cookies: make(map[string]model.Cookie)}
}

func (d *DomainStore) store(cookie model.Cookie, now time.Time) {
	if cookie.IsExpired(now) {
		delete(d.cookies, cookie.Name)
		return
	}
	d.cookies[cookie.Name] = cookie
}

// CookieStore is an in-memory cookie jar indexed by domain, then name.
// It is safe for concurrent use.
type CookieStore struct {
	mutex   sync.RWMutex
	domains map[string]*DomainStore
	now     func() time.Time
}

// NewCookieStore creates an empty CookieStore using the wall clock
func NewCookieStore() *CookieStore {
	return NewCookieStoreWithClock(time.Now)
}

// NewCookieStoreWithClock creates an empty CookieStore evaluating expiry with now
func NewCookieStoreWithClock(now func() time.Time) *CookieStore {
	return &CookieStore{
		domains: make(map[string]*DomainStore),
		now:     now,
	}
}

// Now returns the store's notion of the current time
func (s *CookieStore) Now() time.Time {
	return s.now()
}

// Store upserts cookie into its domain. Invalid cookies are dropped and
// expired ones remove any stored cookie with the same name.
func (s *CookieStore) Store(cookie model.Cookie) {
	if !cookie.IsValid() {
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	domain, ok := s.domains[cookie.Domain]
	if !ok {
		domain = newDomainStore()
		s.domains[cookie.Domain] = domain
	}
	domain.store(cookie, s.now())
}

// GetAllCookies returns every stored cookie ordered by domain, then name
func (s *CookieStore) GetAllCookies() []model.Cookie {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var all []model.Cookie
	for _, domain := range s.domains {
		for _, cookie := range domain.cookies {
			all = append(all, cookie)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Domain != all[j].Domain {
			return all[i].Domain < all[j].Domain
		}
		return all[i].Name < all[j].Name
	})
	return all
}

// CookiesFor returns the unexpired cookies whose domain matches host
func (s *CookieStore) CookiesFor(host string) []model.Cookie {
	now := s.now()
	var matched []model.Cookie
	for _, cookie := range s.GetAllCookies() {
		if cookie.IsExpired(now) || !domainMatches(host, cookie.Domain) {
			continue
		}
		matched = append(matched, cookie)
	}
	return matched
}

// CookieHeader renders the cookies for host as a Cookie header value
func (s *CookieStore) CookieHeader(host string) string {
	cookies := s.CookiesFor(host)
	pairs := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(pairs, "; ")
}

func domainMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	return host == domain || strings.HasSuffix(host, "."+domain)
}
