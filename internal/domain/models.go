// Package domain provides domain models and business logic for the publication service.
package domain

// CreationStatus classifies the outcome of comparing a candidate publication
// against the existing corpus before it is stored. Values are ordered from
// "no conflict" to "exact duplicate".
type CreationStatus string

const (
	// CreationStatusNoConflict means no existing publication has a similar-enough title.
	CreationStatusNoConflict CreationStatus = "no_conflict"

	// CreationStatusMissingAbstract means no similar title was found but the
	// candidate lacks required abstract text. Reported only when there is no
	// title conflict; duplication takes priority as a concern.
	CreationStatusMissingAbstract CreationStatus = "missing_abstract"

	// CreationStatusSameTitleDifferentVenue means a similar title exists but
	// its venue does not match any candidate's venue.
	CreationStatusSameTitleDifferentVenue CreationStatus = "same_title_different_venue"

	// CreationStatusSameTitleSameVenueDifferentAuthors means a similar title
	// and matching venue exist but the author lists differ significantly.
	CreationStatusSameTitleSameVenueDifferentAuthors CreationStatus = "same_title_same_venue_different_authors"

	// CreationStatusSameTitleSameVenueSameAuthors means a similar title,
	// matching venue, and equivalent author list exist: treated as a duplicate.
	CreationStatusSameTitleSameVenueSameAuthors CreationStatus = "same_title_same_venue_same_authors"
)

// IsDuplicate returns true if the status denotes an exact duplicate of an
// existing publication.
func (s CreationStatus) IsDuplicate() bool {
	return s == CreationStatusSameTitleSameVenueSameAuthors
}

// IsConflict returns true if the status denotes any title-level conflict with
// an existing publication.
func (s CreationStatus) IsConflict() bool {
	switch s {
	case CreationStatusSameTitleDifferentVenue,
		CreationStatusSameTitleSameVenueDifferentAuthors,
		CreationStatusSameTitleSameVenueSameAuthors:
		return true
	default:
		return false
	}
}

// PublicationType is the enumerated tag for the kind of publication.
// These values must match the database enum publication_type.
type PublicationType string

const (
	TypeInternationalJournalPaper      PublicationType = "international_journal_paper"
	TypeNationalJournalPaper           PublicationType = "national_journal_paper"
	TypeInternationalConferencePaper   PublicationType = "international_conference_paper"
	TypeNationalConferencePaper        PublicationType = "national_conference_paper"
	TypeInternationalOralCommunication PublicationType = "international_oral_communication"
	TypeNationalOralCommunication      PublicationType = "national_oral_communication"
	TypeInternationalPoster            PublicationType = "international_poster"
	TypeNationalPoster                 PublicationType = "national_poster"
	TypeInternationalKeynote           PublicationType = "international_keynote"
	TypeNationalKeynote                PublicationType = "national_keynote"
	TypeBook                           PublicationType = "book"
	TypeBookChapter                    PublicationType = "book_chapter"
	TypeJournalEdition                 PublicationType = "journal_edition"
	TypeHDRThesis                      PublicationType = "hdr_thesis"
	TypePhDThesis                      PublicationType = "phd_thesis"
	TypeMasterThesis                   PublicationType = "master_thesis"
	TypePatent                         PublicationType = "patent"
	TypeTechnicalReport                PublicationType = "technical_report"
	TypeMiscDocument                   PublicationType = "misc_document"
)

// PublicationCategory is the ranking category associated with a publication
// type, following the French research-evaluation nomenclature.
type PublicationCategory string

const (
	// CategoryACL is articles in international or national journals with
	// selection committee, ranked in international databases.
	CategoryACL PublicationCategory = "ACL"
	// CategoryACLN is articles in journals with selection committee, not
	// ranked in international databases.
	CategoryACLN PublicationCategory = "ACLN"
	// CategoryCACTI is papers in the proceedings of an international conference.
	CategoryCACTI PublicationCategory = "C_ACTI"
	// CategoryCACTN is papers in the proceedings of a national conference.
	CategoryCACTN PublicationCategory = "C_ACTN"
	// CategoryCCOM is oral communications without proceedings.
	CategoryCCOM PublicationCategory = "C_COM"
	// CategoryCAFF is posters in conferences.
	CategoryCAFF PublicationCategory = "C_AFF"
	// CategoryCINV is invited conferences and keynotes.
	CategoryCINV PublicationCategory = "C_INV"
	// CategoryOS is scientific books and book chapters.
	CategoryOS PublicationCategory = "OS"
	// CategoryDO is editions of journals or books.
	CategoryDO PublicationCategory = "DO"
	// CategoryTH is theses (HDR, PhD, master).
	CategoryTH PublicationCategory = "TH"
	// CategoryBRE is patents.
	CategoryBRE PublicationCategory = "BRE"
	// CategoryAP is other scientific productions (reports, misc documents).
	CategoryAP PublicationCategory = "AP"
)

// typeCategories maps each publication type to its category for ranked and
// unranked venues. A per-tag lookup table replaces the per-variant dispatch a
// class hierarchy would use.
var typeCategories = map[PublicationType]struct {
	ranked   PublicationCategory
	unranked PublicationCategory
}{
	TypeInternationalJournalPaper:      {CategoryACL, CategoryACLN},
	TypeNationalJournalPaper:           {CategoryACL, CategoryACLN},
	TypeInternationalConferencePaper:   {CategoryCACTI, CategoryCACTI},
	TypeNationalConferencePaper:        {CategoryCACTN, CategoryCACTN},
	TypeInternationalOralCommunication: {CategoryCCOM, CategoryCCOM},
	TypeNationalOralCommunication:      {CategoryCCOM, CategoryCCOM},
	TypeInternationalPoster:            {CategoryCAFF, CategoryCAFF},
	TypeNationalPoster:                 {CategoryCAFF, CategoryCAFF},
	TypeInternationalKeynote:           {CategoryCINV, CategoryCINV},
	TypeNationalKeynote:                {CategoryCINV, CategoryCINV},
	TypeBook:                           {CategoryOS, CategoryOS},
	TypeBookChapter:                    {CategoryOS, CategoryOS},
	TypeJournalEdition:                 {CategoryDO, CategoryDO},
	TypeHDRThesis:                      {CategoryTH, CategoryTH},
	TypePhDThesis:                      {CategoryTH, CategoryTH},
	TypeMasterThesis:                   {CategoryTH, CategoryTH},
	TypePatent:                         {CategoryBRE, CategoryBRE},
	TypeTechnicalReport:                {CategoryAP, CategoryAP},
	TypeMiscDocument:                   {CategoryAP, CategoryAP},
}

// internationalTypes marks the types that denote international publications.
var internationalTypes = map[PublicationType]bool{
	TypeInternationalJournalPaper:      true,
	TypeInternationalConferencePaper:   true,
	TypeInternationalOralCommunication: true,
	TypeInternationalPoster:            true,
	TypeInternationalKeynote:           true,
}

// Category returns the category of the publication type, depending on whether
// the publication appeared in a ranked venue. The mapping is total: every
// declared type has a category.
func (t PublicationType) Category(ranked bool) PublicationCategory {
	c, ok := typeCategories[t]
	if !ok {
		return CategoryAP
	}
	if ranked {
		return c.ranked
	}
	return c.unranked
}

// IsInternational returns true if the type denotes an international publication.
func (t PublicationType) IsInternational() bool {
	return internationalTypes[t]
}

// IsCompatibleWith returns true if a publication of type t could be recast as
// type other without losing venue information, i.e. both types share a
// category for some ranking. Used when imports propose a type change.
func (t PublicationType) IsCompatibleWith(other PublicationType) bool {
	a, okA := typeCategories[t]
	b, okB := typeCategories[other]
	if !okA || !okB {
		return false
	}
	return a.ranked == b.ranked || a.ranked == b.unranked ||
		a.unranked == b.ranked || a.unranked == b.unranked
}

// Valid returns true if the type is one of the declared publication types.
func (t PublicationType) Valid() bool {
	_, ok := typeCategories[t]
	return ok
}
