package crawler

import (
	"path"
	"regexp"
	"strings"
)

// binaryExtensions are file extensions that never carry prose worth scoring.
// PDFs are deliberately absent; long-form writing is often published as PDF.
var binaryExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".webp": {}, ".svg": {}, ".ico": {}, ".tiff": {},
	".mp4": {}, ".m4v": {}, ".mov": {}, ".avi": {}, ".wmv": {},
	".flv": {}, ".mkv": {}, ".webm": {}, ".mpg": {}, ".mpeg": {},
	".mp3": {}, ".wav": {}, ".m4a": {}, ".ogg": {}, ".flac": {},
	".aac": {}, ".wma": {},
	".zip": {}, ".rar": {}, ".7z": {}, ".tar": {}, ".gz": {},
	".bz2": {}, ".xz": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {},
	".pptx": {}, ".rtf": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dmg": {}, ".iso": {},
	".bin": {}, ".msi": {},
}

// excludedURLPatterns match listing, archive, and machinery URLs that are
// navigation rather than content.
var excludedURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/tag/`),
	regexp.MustCompile(`/category/`),
	regexp.MustCompile(`/categories/`),
	regexp.MustCompile(`/search/`),
	regexp.MustCompile(`/archive/`),
	regexp.MustCompile(`/archives/`),
	regexp.MustCompile(`/feed/`),
	regexp.MustCompile(`/user/`),
	regexp.MustCompile(`/users/`),
	regexp.MustCompile(`/xmlrpc\.php`),
	regexp.MustCompile(`/wp-json/`),
	regexp.MustCompile(`\?p=\d+`),
	regexp.MustCompile(`\?s=`),
	regexp.MustCompile(`\?cat=`),
	regexp.MustCompile(`\?tag=`),
}

// AdmissionFilter decides whether a candidate URL enters the work queue.
type AdmissionFilter struct {
	blacklist *domainMatcher
}

// NewAdmissionFilter builds a filter over the current blacklist snapshot.
func NewAdmissionFilter(blacklist map[string]struct{}) *AdmissionFilter {
	return &AdmissionFilter{blacklist: newDomainMatcher(blacklist)}
}

// Block adds a domain to the filter's blacklist for the rest of the run.
func (f *AdmissionFilter) Block(domain string) {
	f.blacklist.add(domain)
}

// Admissible reports whether rawURL (already canonical) should be fetched,
// with a short reason when it should not.
func (f *AdmissionFilter) Admissible(rawURL string) (bool, string) {
	lower := strings.ToLower(rawURL)
	if ext := path.Ext(lower); ext != "" {
		if _, ok := binaryExtensions[ext]; ok {
			return false, "binary extension"
		}
	}
	for _, pattern := range excludedURLPatterns {
		if pattern.MatchString(lower) {
			return false, "excluded url pattern"
		}
	}
	if f.blacklist.matches(DomainOf(rawURL)) {
		return false, "blacklisted domain"
	}
	return true, ""
}

// domainMatcher matches a host against blocked domains, including any
// parent domain: blocking example.com also blocks blog.example.com.
type domainMatcher struct {
	blocked map[string]struct{}
}

func newDomainMatcher(domains map[string]struct{}) *domainMatcher {
	m := &domainMatcher{blocked: make(map[string]struct{}, len(domains))}
	for domain := range domains {
		m.add(domain)
	}
	return m
}

func (m *domainMatcher) add(domain string) {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain != "" {
		m.blocked[domain] = struct{}{}
	}
}

func (m *domainMatcher) matches(host string) bool {
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "" {
		return false
	}
	if _, ok := m.blocked[host]; ok {
		return true
	}
	for {
		dot := strings.Index(host, ".")
		if dot < 0 {
			return false
		}
		host = host[dot+1:]
		if _, ok := m.blocked[host]; ok {
			return true
		}
	}
}
