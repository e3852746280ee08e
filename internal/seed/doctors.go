package seed

import (
	"gorm.io/gorm"

	"healthpulse-server/internal/models"
	"healthpulse-server/internal/specialization"
)

// defaultDoctors covers every specialization the symptom table can resolve to.
var defaultDoctors = []models.Doctor{
	{Name: "Dr. Meera Shah", Specialization: specialization.Dermatologist, IsAvailable: true},
	{Name: "Dr. Arjun Kapoor", Specialization: specialization.Dermatologist, IsAvailable: true},
	{Name: "Dr. Rohan Gupta", Specialization: specialization.GeneralPhysician, IsAvailable: true},
	{Name: "Dr. Priya Desai", Specialization: specialization.GeneralPhysician, IsAvailable: true},
	{Name: "Dr. Vikram Joshi", Specialization: specialization.Cardiologist, IsAvailable: true},
	{Name: "Dr. Neha Reddy", Specialization: specialization.Cardiologist, IsAvailable: true},
	{Name: "Dr. Anjali Menon", Specialization: specialization.Neurologist, IsAvailable: true},
	{Name: "Dr. Karthik Nair", Specialization: specialization.Neurologist, IsAvailable: true},
	{Name: "Dr. Sameer Khan", Specialization: specialization.Ophthalmologist, IsAvailable: true},
	{Name: "Dr. Divya Patel", Specialization: specialization.Ophthalmologist, IsAvailable: true},
	{Name: "Dr. Amit Sharma", Specialization: specialization.Gastroenterologist, IsAvailable: true},
	{Name: "Dr. Sneha Iyer", Specialization: specialization.Gastroenterologist, IsAvailable: true},
	{Name: "Dr. Rahul Verma", Specialization: specialization.Orthopedist, IsAvailable: true},
	{Name: "Dr. Ananya Das", Specialization: specialization.Orthopedist, IsAvailable: true},
	{Name: "Dr. Sanjay Rao", Specialization: specialization.ENTSpecialist, IsAvailable: true},
	{Name: "Dr. Nandini Choudhary", Specialization: specialization.ENTSpecialist, IsAvailable: true},
	{Name: "Dr. Aditya Malhotra", Specialization: specialization.Psychiatrist, IsAvailable: true},
	{Name: "Dr. Swati Banerjee", Specialization: specialization.Pulmonologist, IsAvailable: true},
	{Name: "Dr. Varun Sethi", Specialization: specialization.Allergist, IsAvailable: true},
	{Name: "Dr. Deepika Srinivasan", Specialization: specialization.Endocrinologist, IsAvailable: true},
	{Name: "Dr. Harish Prabhu", Specialization: specialization.Urologist, IsAvailable: true},
	{Name: "Dr. Gayatri Menon", Specialization: specialization.Nephrologist, IsAvailable: true},
}

// Doctors inserts the default doctor set when the doctors table is empty.
func Doctors(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.Doctor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	doctors := make([]models.Doctor, len(defaultDoctors))
	copy(doctors, defaultDoctors)
	if err := db.Create(&doctors).Error; err != nil {
		return 0, err
	}
	return len(doctors), nil
}
