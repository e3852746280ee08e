package specialization

import "strings"

// Specialization is a medical practice category used to match symptoms to doctors.
type Specialization string

const (
	Dermatologist      Specialization = "Dermatologist"
	GeneralPhysician   Specialization = "General Physician"
	Cardiologist       Specialization = "Cardiologist"
	Neurologist        Specialization = "Neurologist"
	Ophthalmologist    Specialization = "Ophthalmologist"
	Gastroenterologist Specialization = "Gastroenterologist"
	Orthopedist        Specialization = "Orthopedist"
	ENTSpecialist      Specialization = "ENT Specialist"
	Psychiatrist       Specialization = "Psychiatrist"
	Pulmonologist      Specialization = "Pulmonologist"
	Allergist          Specialization = "Allergist"
	Endocrinologist    Specialization = "Endocrinologist"
	Urologist          Specialization = "Urologist"
	Nephrologist       Specialization = "Nephrologist"
)

// Fallback is returned when no keyword matches the symptom text.
const Fallback = GeneralPhysician

// Rule maps a symptom keyword (possibly a multi-word phrase) to a specialization.
type Rule struct {
	Keyword        string
	Specialization Specialization
}

// DefaultTable is the ordered symptom keyword table. Keywords are matched by
// substring containment against the lower-cased symptom text, and the first
// matching rule wins, so the order of entries is part of the contract.
var DefaultTable = []Rule{
	// Dermatology
	{"skin", Dermatologist},
	{"rash", Dermatologist},
	{"acne", Dermatologist},
	{"eczema", Dermatologist},
	{"psoriasis", Dermatologist},
	{"hives", Dermatologist},

	// General medicine
	{"fever", GeneralPhysician},
	{"cough", GeneralPhysician},
	{"fatigue", GeneralPhysician},
	{"flu", GeneralPhysician},
	{"cold", GeneralPhysician},
	{"nausea", GeneralPhysician},

	// Cardiology
	{"chest pain", Cardiologist},
	{"palpitations", Cardiologist},
	{"shortness of breath", Cardiologist},
	{"high blood pressure", Cardiologist},
	{"heart murmur", Cardiologist},

	// Neurology
	{"headache", Neurologist},
	{"dizziness", Neurologist},
	{"seizures", Neurologist},
	{"numbness", Neurologist},
	{"tingling", Neurologist},
	{"migraine", Neurologist},

	// Ophthalmology
	{"vision", Ophthalmologist},
	{"eye pain", Ophthalmologist},
	{"red eye", Ophthalmologist},
	{"blurry vision", Ophthalmologist},
	{"dry eyes", Ophthalmologist},

	// Gastroenterology
	{"stomach pain", Gastroenterologist},
	{"diarrhea", Gastroenterologist},
	{"constipation", Gastroenterologist},
	{"heartburn", Gastroenterologist},
	{"bloating", Gastroenterologist},

	// Orthopedics
	{"joint pain", Orthopedist},
	{"back pain", Orthopedist},
	{"swollen joint", Orthopedist},
	{"fracture", Orthopedist},
	{"sports injury", Orthopedist},

	// ENT
	{"ear pain", ENTSpecialist},
	{"sore throat", ENTSpecialist},
	{"sinus pain", ENTSpecialist},
	{"hearing loss", ENTSpecialist},
	{"tinnitus", ENTSpecialist},

	// Psychiatry
	{"depression", Psychiatrist},
	{"anxiety", Psychiatrist},

	// Pulmonology
	{"asthma", Pulmonologist},

	// Immunology
	{"allergy", Allergist},

	// Endocrinology
	{"diabetes", Endocrinologist},
	{"thyroid", Endocrinologist},

	// Urology
	{"urinary", Urologist},

	// Nephrology
	{"kidney", Nephrologist},
}

// Resolver resolves free-text symptom descriptions against an ordered keyword table.
type Resolver struct {
	table []Rule
}

// NewResolver creates a resolver over the given table. A nil or empty table
// falls back to DefaultTable.
func NewResolver(table []Rule) *Resolver {
	if len(table) == 0 {
		table = DefaultTable
	}
	return &Resolver{table: table}
}

// Resolve returns the specialization for the first keyword contained in the
// symptom text, or Fallback when nothing matches. It is total over all inputs.
func (r *Resolver) Resolve(symptom string) Specialization {
	lowered := strings.ToLower(symptom)
	for _, rule := range r.table {
		if strings.Contains(lowered, rule.Keyword) {
			return rule.Specialization
		}
	}
	return Fallback
}

// Resolve resolves a symptom against the default table.
func Resolve(symptom string) Specialization {
	return NewResolver(nil).Resolve(symptom)
}
