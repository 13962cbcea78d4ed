package web

// Choices offered by the filter bar and the add doctor form.
var (
	timeOptions = []string{"AM", "PM"}

	specialties = []string{
		"Cardiologist",
		"Dermatologist",
		"Neurologist",
		"Pediatrician",
		"Orthopedic",
		"Gynecologist",
		"Psychiatrist",
		"Dentist",
		"Ophthalmologist",
		"ENT",
		"Urologist",
		"Oncologist",
		"Gastroenterologist",
		"General Physician",
	}

	availabilitySlots = []string{
		"09:00-10:00",
		"10:00-11:00",
		"11:00-12:00",
		"12:00-13:00",
		"14:00-15:00",
		"15:00-16:00",
		"16:00-17:00",
	}

	appointmentConditions = []string{"past", "future"}
)
