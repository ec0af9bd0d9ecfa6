package framework

import "strings"

// SectionInfo is the descriptive metadata of a section. The harness surfaces it in report headers
// but never interprets it.
type SectionInfo struct {
	ID        string
	Title     string
	Version   string
	File      string
	BugNumber string
	Summary   string
}

// Section groups the test cases recorded between one StartTest call and the next.
type Section struct {
	info         SectionInfo
	header       string
	registry     *Registry
	headerLogged bool
	reportedLen  int
	reported     bool
	summary      ReportSummary
}

func newSection(info SectionInfo, comparator Comparator) *Section {
	return &Section{info: info, registry: NewRegistry(comparator)}
}

func (s *Section) Info() SectionInfo { return s.info }

func (s *Section) Registry() *Registry { return s.registry }

// Header returns the text set by WriteHeaderToLog, or the section ID and title.
func (s *Section) Header() string {
	if s.header != "" {
		return s.header
	}
	return strings.TrimSpace(s.info.ID + " " + s.info.Title)
}

// pending is true if cases were recorded since the section was last reported, or if it has never
// been reported.
func (s *Section) pending() bool {
	return !s.reported || s.registry.Len() != s.reportedLen
}
