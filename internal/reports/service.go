package reports

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/accounts"
)

// CSV is a fully assembled report: one fixed header row and one row per
// entity.
type CSV struct {
	Filename string
	Header   []string
	Rows     [][]string
}

type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

var scholarshipHeader = []string{
	"Name", "Amount", "Donor", "Donor Phone", "Donor Email",
	"Num Available", "Required Majors", "Required GPA", "Deadline", "Other Requirements",
}

func (s *Service) AvailableScholarships() (*CSV, error) {
	return s.scholarshipReport(true, "available_scholarships.csv")
}

func (s *Service) ArchivedScholarships() (*CSV, error) {
	return s.scholarshipReport(false, "archived_scholarships.csv")
}

func (s *Service) scholarshipReport(active bool, filename string) (*CSV, error) {
	list, err := s.repository.ScholarshipsByActive(active)
	if err != nil {
		return nil, err
	}
	donors, err := s.repository.AccountsByID()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(list))
	for _, sch := range list {
		donorName, donorPhone, donorEmail := resolveDonor(donors, sch.DonorID)
		rows = append(rows, []string{
			sch.Name,
			formatAmount(sch.Amount),
			donorName,
			donorPhone,
			donorEmail,
			formatIntPtr(sch.Quantity),
			sch.AllowedMajor,
			formatFloatPtr(sch.MinGPA),
			formatDeadline(sch.Deadline),
			sch.Description,
		})
	}
	return &CSV{Filename: filename, Header: scholarshipHeader, Rows: rows}, nil
}

var applicantHeader = []string{
	"Full Name", "Pronoun", "Student ID", "Major", "Minor",
	"GPA", "Current Year", "Ethnicity", "Essay", "Work Experience",
}

func (s *Service) Applicants() (*CSV, error) {
	return s.applicantReport("scholarship_applicants.csv", false)
}

// Demographics mirrors the applicant report but prefers the profile GPA
// over the answer payload.
func (s *Service) Demographics() (*CSV, error) {
	return s.applicantReport("student_demographics.csv", true)
}

func (s *Service) applicantReport(filename string, preferProfileGPA bool) (*CSV, error) {
	apps, err := s.repository.Applications()
	if err != nil {
		return nil, err
	}
	users, err := s.repository.AccountsByID()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		applicant := users[a.ApplicantID]
		gpa := dataString(a.Data, "gpa")
		if preferProfileGPA && applicant.GPA != nil {
			gpa = formatFloatPtr(applicant.GPA)
		}
		rows = append(rows, []string{
			fullName(&applicant),
			dataString(a.Data, "pronoun"),
			dataString(a.Data, "student_id"),
			dataString(a.Data, "major"),
			dataString(a.Data, "minor"),
			gpa,
			dataString(a.Data, "year"),
			dataString(a.Data, "ethnicity"),
			dataString(a.Data, "personal_statement"),
			dataString(a.Data, "work_experience"),
		})
	}
	return &CSV{Filename: filename, Header: applicantHeader, Rows: rows}, nil
}

var awardedHeader = []string{
	"Scholarship", "Amount", "Awardee Name", "Awardee NetID",
	"Awardee Major", "Awardee GPA", "Awardee Ethnicity", "Awardee Email",
}

func (s *Service) Awarded() (*CSV, error) {
	apps, err := s.repository.AwardedApplications()
	if err != nil {
		return nil, err
	}
	users, err := s.repository.AccountsByID()
	if err != nil {
		return nil, err
	}
	schols, err := s.repository.ScholarshipsByID()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(apps))
	for _, a := range apps {
		applicant := users[a.ApplicantID]
		sch := schols[a.ScholarshipID]
		rows = append(rows, []string{
			sch.Name,
			formatAmount(sch.Amount),
			fullName(&applicant),
			applicant.NetID,
			applicant.Major,
			formatFloatPtr(applicant.GPA),
			dataString(a.Data, "ethnicity"),
			applicant.Email,
		})
	}
	return &CSV{Filename: "awarded_scholarships.csv", Header: awardedHeader, Rows: rows}, nil
}

var activeDonorHeader = []string{
	"Donor", "Donor Phone", "Donor Email",
	"Scholarship", "Amount", "Num Available",
	"Required Majors", "Required GPA", "Deadline",
}

func (s *Service) ActiveDonors() (*CSV, error) {
	list, err := s.repository.ScholarshipsByActive(true)
	if err != nil {
		return nil, err
	}
	donors, err := s.repository.AccountsByID()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(list))
	for _, sch := range list {
		donorName, donorPhone, donorEmail := resolveDonor(donors, sch.DonorID)
		rows = append(rows, []string{
			donorName,
			donorPhone,
			donorEmail,
			sch.Name,
			formatAmount(sch.Amount),
			formatIntPtr(sch.Quantity),
			sch.AllowedMajor,
			formatFloatPtr(sch.MinGPA),
			formatDeadline(sch.Deadline),
		})
	}
	return &CSV{Filename: "active_donors.csv", Header: activeDonorHeader, Rows: rows}, nil
}

// resolveDonor follows the weak donor reference; a missing donor comes
// back as blank columns.
func resolveDonor(byID map[uint]accounts.Account, donorID *int64) (name, phone, email string) {
	if donorID == nil || *donorID < 0 {
		return "", "", ""
	}
	donor, ok := byID[uint(*donorID)]
	if !ok {
		return "", "", ""
	}
	return fullName(&donor), donor.Phone, donor.Email
}

func fullName(account *accounts.Account) string {
	if account.FirstName == "" && account.LastName == "" {
		return ""
	}
	return fmt.Sprintf("%s %s", account.FirstName, account.LastName)
}

func dataString(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	raw, ok := data[key]
	if !ok || raw == nil {
		return ""
	}
	switch value := raw.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatIntPtr(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatDeadline(deadline *time.Time) string {
	if deadline == nil {
		return ""
	}
	return deadline.Format("2006-01-02")
}
