package schema

// Record keys of the student-term dataset.
const (
	KeyYear                = "year"
	KeyTerm                = "term"
	KeyApplications        = "applications"
	KeyAdmitted            = "admitted"
	KeyEnrolled            = "enrolled"
	KeyRetentionRate       = "retention_rate_pct"
	KeySatisfaction        = "satisfaction_pct"
	KeyArtsEnrolled        = "arts_enrolled"
	KeyScienceEnrolled     = "science_enrolled"
	KeyEngineeringEnrolled = "engineering_enrolled"
	KeyBusinessEnrolled    = "business_enrolled"
)

// StudentTerms is the logical schema of the admissions/retention/satisfaction
// dataset: one row per (Year, Term). Every column is required.
func StudentTerms() Config {
	return Config{
		Name:        "University Student Terms",
		Version:     "1.0",
		Description: "Per-term admissions, retention, satisfaction and departmental enrollment",
		Dimensions: []DimensionMeta{
			{Key: KeyTerm, Header: "Term", DisplayName: "Term", Required: true, IsTemporal: true},
		},
		Measures: []MeasureMeta{
			{Key: KeyYear, Header: "Year", DisplayName: "Year", Unit: "year", Required: true},
			count(KeyApplications, "Applications", "Applications"),
			count(KeyAdmitted, "Admitted", "Admitted"),
			count(KeyEnrolled, "Enrolled", "Enrolled"),
			rate(KeyRetentionRate, "Retention Rate (%)", "Retention Rate"),
			rate(KeySatisfaction, "Student Satisfaction (%)", "Student Satisfaction"),
			count(KeyArtsEnrolled, "Arts Enrolled", "Arts"),
			count(KeyScienceEnrolled, "Science Enrolled", "Science"),
			count(KeyEngineeringEnrolled, "Engineering Enrolled", "Engineering"),
			count(KeyBusinessEnrolled, "Business Enrolled", "Business"),
		},
	}
}

func count(key, header, display string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		Header:             header,
		DisplayName:        display,
		Unit:               "count",
		Required:           true,
		DefaultAggregation: "sum",
	}
}

func rate(key, header, display string) MeasureMeta {
	return MeasureMeta{
		Key:                key,
		Header:             header,
		DisplayName:        display,
		Unit:               "percent",
		Required:           true,
		DefaultAggregation: "avg",
	}
}
