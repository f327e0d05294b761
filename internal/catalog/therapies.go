// Package catalog holds the static Panchakarma therapy reference data.
package catalog

// Therapy describes a single treatment offered by the centers.
type Therapy struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	SanskritName  string   `json:"sanskrit_name"`
	Description   string   `json:"description"`
	Duration      string   `json:"duration"`
	Benefits      []string `json:"benefits"`
	PreProcedure  []string `json:"pre_procedure"`
	PostProcedure []string `json:"post_procedure"`
	ImageURL      string   `json:"image_url"`
}

var therapies = []Therapy{
	{
		ID:           "vamana",
		Name:         "Therapeutic Emesis",
		SanskritName: "Vamana",
		Description:  "A medicated emesis therapy that removes Kapha toxins collected in the body and the respiratory tract. This is given to people with high Kapha imbalance.",
		Duration:     "60-90 Minutes (Procedure day) - requires 3-7 days prep",
		Benefits: []string{
			"Relief from Asthma and Bronchitis",
			"Effective for Skin Diseases",
			"Reduces Obesity",
			"Clears Sinus Congestion",
		},
		PreProcedure: []string{
			"Oleation (Snehana) - Internal ghee consumption for 3-7 days",
			"Sudation (Swedana) - Steam therapy to loosen toxins",
			"Eat Kapha-aggravating foods (like yogurt, sweets) the night before to excite the dosha for elimination",
		},
		PostProcedure: []string{
			"Inhale herbal smoke (Dhumapana)",
			"Avoid loud speech and stress",
			"Follow a graduated diet (Samsarjana Krama) starting with thin rice gruel",
			"Avoid cold blasts of air",
		},
		ImageURL: "https://images.unsplash.com/photo-1600334089648-b0d9d302427f?auto=format&fit=crop&q=80&w=1000",
	},
	{
		ID:           "virechana",
		Name:         "Purgation Therapy",
		SanskritName: "Virechana",
		Description:  "A medicated purgation therapy used to remove Pitta toxins from the body that are accumulated in the liver and gallbladder.",
		Duration:     "45-60 Minutes (Observation time)",
		Benefits: []string{
			"Detoxifies Liver and Blood",
			"Treats Skin Disorders like Eczema",
			"Relieves Hyperacidity",
			"Improves Digestion",
		},
		PreProcedure: []string{
			"Internal Oleation with medicated ghee",
			"Three days of oil massage and steam",
			"Light diet before the purgation day",
		},
		PostProcedure: []string{
			"Strict rest on the day of procedure",
			"Sip warm water only",
			"Follow the specific post-cleanse diet for 3-5 days",
			"Avoid sun exposure",
		},
		ImageURL: "https://images.unsplash.com/photo-1544367563-12123d8965cd?auto=format&fit=crop&q=80&w=1000",
	},
	{
		ID:           "basti",
		Name:         "Enema Therapy",
		SanskritName: "Basti",
		Description:  "Considered the mother of all treatments, Basti cleanses the accumulated Vata from the colon using medicated oil or decoctions.",
		Duration:     "30-45 Minutes",
		Benefits: []string{
			"Treats Arthritis and Rheumatism",
			"Relieves Constipation",
			"Treats Neurological Disorders",
			"Rejuvenates the Body",
		},
		PreProcedure: []string{
			"Light massage (Abhyanga) on the lower back and abdomen",
			"Local steam (Nadi Sweda)",
			"Empty bladder and bowels before the procedure",
		},
		PostProcedure: []string{
			"Rest for 30-60 minutes",
			"Avoid sitting for long periods immediately after",
			"Consume light, warm food only when hungry",
		},
		ImageURL: "https://images.unsplash.com/photo-1512290923902-8a9f81dc236c?auto=format&fit=crop&q=80&w=1000",
	},
	{
		ID:           "nasya",
		Name:         "Nasal Administration",
		SanskritName: "Nasya",
		Description:  "Existing impurities are removed from the head region through the nasal passage using medicated oils or powders.",
		Duration:     "30 Minutes",
		Benefits: []string{
			"Clears Sinus Congestion",
			"Improves Eyesight",
			"Relieves Migraines",
			"Promotes Mental Clarity",
		},
		PreProcedure: []string{
			"Gentle facial massage with oil",
			"Steam inhalation to open nasal passages",
		},
		PostProcedure: []string{
			"Gargle with warm water",
			"Avoid exposure to cold air",
			"Do not sleep immediately after treatment",
		},
		ImageURL: "https://images.unsplash.com/photo-1515377905703-c4788e51af15?auto=format&fit=crop&q=80&w=1000",
	},
	{
		ID:           "raktamokshana",
		Name:         "Bloodletting",
		SanskritName: "Raktamokshana",
		Description:  "A refined procedure to eliminate toxins present in the bloodstream, often using leeches (Jaloka) or other methods.",
		Duration:     "30-60 Minutes",
		Benefits: []string{
			"Treats Chronic Skin Conditions",
			"Reduces localized Inflammation",
			"Effective for Varicose Veins",
			"Purifies Blood",
		},
		PreProcedure: []string{
			"Detailed examination of the site",
			"Cleaning the area with antiseptic herbal water",
		},
		PostProcedure: []string{
			"Dressing of the area with turmeric or antiseptic herbs",
			"Avoid spicy and fermented foods",
			"Avoid getting the area wet for 24 hours",
		},
		ImageURL: "https://images.unsplash.com/photo-1579126038374-6064e9370f0f?auto=format&fit=crop&q=80&w=1000",
	},
}

// List returns every therapy in catalog order.
func List() []Therapy {
	out := make([]Therapy, len(therapies))
	copy(out, therapies)
	return out
}

// ByID looks up a therapy by its identifier.
func ByID(id string) (Therapy, bool) {
	for _, t := range therapies {
		if t.ID == id {
			return t, true
		}
	}
	return Therapy{}, false
}
