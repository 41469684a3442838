package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// enum - закрытое перечисление с явным порядковым номером.
// В БД хранится номер, наружу (JSON, фильтры, сортировка) отдается метка.
type enum struct {
	name   string
	labels []string
	index  map[string]int
}

func newEnum(name string, labels ...string) enum {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[strings.ToLower(l)] = i
	}
	return enum{name: name, labels: labels, index: idx}
}

func (e enum) label(i int) string {
	if i < 0 || i >= len(e.labels) {
		return ""
	}
	return e.labels[i]
}

// parse принимает метку (без учета регистра) или порядковый номер
func (e enum) parse(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, ok := e.index[strings.ToLower(s)]; ok {
		return i, true
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(e.labels) {
		return n, true
	}
	return 0, false
}

func (e enum) marshal(i int) ([]byte, error) {
	l := e.label(i)
	if l == "" {
		return nil, fmt.Errorf("invalid %s ordinal %d", e.name, i)
	}
	return json.Marshal(l)
}

func (e enum) unmarshal(data []byte) (int, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, err
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case float64:
		s = strconv.Itoa(int(v))
	default:
		return 0, fmt.Errorf("invalid %s value %s", e.name, string(data))
	}
	i, ok := e.parse(s)
	if !ok {
		return 0, fmt.Errorf("'%s' is not a valid %s", s, e.name)
	}
	return i, nil
}

// caseSQL строит CASE для сортировки по метке
func (e enum) caseSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, l := range e.labels {
		fmt.Fprintf(&b, " WHEN %d THEN '%s'", i, strings.ReplaceAll(l, "'", "''"))
	}
	b.WriteString(" END")
	return b.String()
}

// ---------------------------------------------------------------------------
// Experience
// ---------------------------------------------------------------------------

type Experience int

const (
	ExperienceFresh Experience = iota
	Experience1To3
	Experience3To5
	Experience5To8
	Experience8To10
	Experience10To15
	Experience15To20
	Experience20Plus
)

var experienceEnum = newEnum("experience",
	"Fresh",
	"1-3 Years",
	"3-5 Years",
	"5-8 Years",
	"8-10 Years",
	"10-15 Years",
	"15-20 Years",
	"20+ Years",
)

func (e Experience) String() string { return experienceEnum.label(int(e)) }

func (e Experience) MarshalJSON() ([]byte, error) { return experienceEnum.marshal(int(e)) }

func (e *Experience) UnmarshalJSON(data []byte) error {
	i, err := experienceEnum.unmarshal(data)
	if err != nil {
		return err
	}
	*e = Experience(i)
	return nil
}

func ParseExperience(s string) (Experience, bool) {
	i, ok := experienceEnum.parse(s)
	return Experience(i), ok
}

// ExperienceOptions - метки в порядке номеров (для фронтенда)
func ExperienceOptions() []string {
	return append([]string(nil), experienceEnum.labels...)
}

// ExperienceLabelSQL - выражение для сортировки по "experience_label"
func ExperienceLabelSQL() string { return experienceEnum.caseSQL("candidates.experience") }

// ---------------------------------------------------------------------------
// Education
// ---------------------------------------------------------------------------

type Education int

var educationEnum = newEnum("education",
	"matriculation_o_levels",
	"intermediate_a_levels",
	"diploma_certification",
	"bachelors_degree",
	"masters_degree",
	"mphil_ms",
	"phd",
)

func (e Education) String() string { return educationEnum.label(int(e)) }

func (e Education) MarshalJSON() ([]byte, error) { return educationEnum.marshal(int(e)) }

func (e *Education) UnmarshalJSON(data []byte) error {
	i, err := educationEnum.unmarshal(data)
	if err != nil {
		return err
	}
	*e = Education(i)
	return nil
}

func ParseEducation(s string) (Education, bool) {
	i, ok := educationEnum.parse(s)
	return Education(i), ok
}

func EducationOptions() []string { return append([]string(nil), educationEnum.labels...) }

// EducationTextSQL - выражение для сортировки по "education_text"
func EducationTextSQL() string { return educationEnum.caseSQL("candidates.education") }

// ---------------------------------------------------------------------------
// JobFunction
// ---------------------------------------------------------------------------

type JobFunction int

var functionEnum = newEnum("function",
	"marketing",
	"sales",
	"human_resources",
	"finance_and_accounting",
	"procurement_and_purchasing",
	"supply_chain",
	"logistics_and_warehouse",
	"it",
	"administration",
	"operations_management",
	"customer_service_and_support",
	"business_development",
	"legal_and_compliance",
	"product_management",
	"project_management",
	"research_and_development",
	"quality_assurance",
	"engineering",
	"design_and_creative",
	"consulting",
	"public_relations_and_communications",
	"demand_planning",
	"health_safety_and_environment",
	"corporate_social_responsibility_and_sustainability",
	"consumer_insight",
	"other_function",
)

func (f JobFunction) String() string { return functionEnum.label(int(f)) }

func (f JobFunction) MarshalJSON() ([]byte, error) { return functionEnum.marshal(int(f)) }

func (f *JobFunction) UnmarshalJSON(data []byte) error {
	i, err := functionEnum.unmarshal(data)
	if err != nil {
		return err
	}
	*f = JobFunction(i)
	return nil
}

func ParseJobFunction(s string) (JobFunction, bool) {
	i, ok := functionEnum.parse(s)
	return JobFunction(i), ok
}

func JobFunctionOptions() []string { return append([]string(nil), functionEnum.labels...) }

// ---------------------------------------------------------------------------
// Industries (множественное значение, хранится строками в text[])
// ---------------------------------------------------------------------------

var Industries = []string{
	"fast_moving_consumer_goods",
	"information_technology",
	"healthcare_and_pharmaceuticals",
	"banking_and_financial_services",
	"retail_and_electronic_commerce",
	"manufacturing_and_production",
	"telecommunications",
	"education_and_training",
	"media_and_entertainment",
	"real_estate_and_construction",
	"automotive",
	"energy_and_utilities",
	"logistics_and_transportation",
	"hospitality_and_tourism",
	"nonprofit_and_nongovernmental_organizations",
	"textile",
	"aviation",
	"financial_technology",
	"microfinance_and_electronic_banking",
	"agriculture",
	"energy_and_power_sector",
	"other",
}

var industrySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Industries))
	for _, i := range Industries {
		m[i] = struct{}{}
	}
	return m
}()

func IsValidIndustry(s string) bool {
	_, ok := industrySet[s]
	return ok
}
