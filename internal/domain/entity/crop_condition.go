package entity

type CropCondition struct {
	Description string `json:"description"`
	Treatment   string `json:"treatment"`
}

// CropConditions describes the classes the detection model can return.
var CropConditions = map[string]CropCondition{
	"Septoria_leaf_spot": {
		Description: "Brown spots with dark borders, usually starting on lower leaves.",
		Treatment:   "Remove infected leaves, apply fungicide, improve air circulation.",
	},
	"Leaf_Mold": {
		Description: "Yellow spots on upper leaf surfaces and olive-green to gray mold on undersides.",
		Treatment:   "Increase spacing between plants, reduce humidity, apply fungicide.",
	},
	"Target_Spot": {
		Description: "Brown circular lesions with concentric rings giving a target-like appearance.",
		Treatment:   "Rotate crops, apply fungicide, avoid overhead watering.",
	},
	"powdery_mildew": {
		Description: "White powdery spots on leaves and stems.",
		Treatment:   "Increase air circulation, apply fungicide, remove infected parts.",
	},
	"Bacterial_spot": {
		Description: "Small, dark, water-soaked spots on leaves, stems, and fruits.",
		Treatment:   "Use copper-based sprays, remove infected plants, rotate crops.",
	},
	"Late_blight": {
		Description: "Dark green to brown water-soaked spots on leaves that quickly enlarge.",
		Treatment:   "Apply fungicide preventatively, remove infected plants, improve drainage.",
	},
	"Early_blight": {
		Description: "Dark brown spots with concentric rings on lower leaves first.",
		Treatment:   "Apply fungicide, remove infected leaves, maintain plant nutrition.",
	},
	"healthy": {
		Description: "No signs of disease. Plant appears normal and vibrant.",
		Treatment:   "Continue regular maintenance and monitoring.",
	},
	"Spider_mites Two-spotted_spider_mite": {
		Description: "Tiny yellow or brown spots on leaves, fine webbing on undersides.",
		Treatment:   "Spray with water, apply insecticidal soap or miticide, introduce predatory mites.",
	},
	"Tomato_Yellow_Leaf_Curl_Virus": {
		Description: "Yellowing and upward curling of leaves, stunted growth.",
		Treatment:   "Remove infected plants, control whitefly vectors, use resistant varieties.",
	},
	"Tomato_mosaic_virus": {
		Description: "Mottled light and dark green patterns on leaves, distorted growth.",
		Treatment:   "Remove infected plants, control aphids, practice good sanitation, use resistant varieties.",
	},
	"Blight": {
		Description: "Yellowing and browning of leaves, causing extensive damage to crop.",
		Treatment:   "Apply fungicides, remove infected plants, practice crop rotation.",
	},
	"Gray_Leaf_Spot": {
		Description: "Rectangular gray-brown lesions on leaves, reducing photosynthesis.",
		Treatment:   "Use resistant varieties, apply fungicides, improve field drainage.",
	},
	"Common_Rust": {
		Description: "Orange-brown pustules on leaves and stems, weakening the plant.",
		Treatment:   "Plant resistant varieties, apply fungicides, remove infected plant parts.",
	},
}
