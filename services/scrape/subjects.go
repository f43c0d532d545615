package scrape

// DefaultSubjects is the full list of subject codes the batch walks,
// in processing order. Overridable from config for partial runs.
var DefaultSubjects = []string{
	"ADM", "AHL", "ANT", "APA", "ARB", "ART", "ASI", "BCH", "BIL", "BIO",
	"BMG", "BPS", "CEG", "CHG", "CHM", "CIN", "CLA", "CMN", "CPT", "CRM",
	"CSI", "CVG", "DCL", "DLS", "DVM", "ECO", "EDU", "ELG", "ENG", "ENV",
	"EPI", "ERG", "ESL", "ESP", "EVD", "EVG", "FAM", "FEM", "FLS", "FRA",
	"GEG", "GEO", "GLO", "GNG", "GRT", "HAH", "HIS", "HMG", "HSS", "ILA",
	"IAI", "ISI", "ITA", "ITI", "JCS", "JPN", "LCM", "LIN", "LLM", "LSR",
	"MAT", "MBA", "MCG", "MDV", "MED", "MGT", "MHS", "MIC", "MUS", "NSG",
	"NUT", "ORA", "PAP", "PED", "PHA", "PHI", "PHR", "PHS", "PHY", "PLN",
	"POL", "POP", "PSY", "REL", "RUS", "SCG", "SCS", "SEC", "SEG", "SOC",
	"SRS", "SSP", "STA", "SYS", "THE", "TMM", "TOX", "TRA", "VNT", "YDD",
}
