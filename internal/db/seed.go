package db

import (
  "errors"
  "fmt"

  "gorm.io/gorm"

  "github.com/bionet-project/bionet-backend/internal/types"
)

type seedGene struct {
  symbol      string
  category    string
  description string
}

var seedCategories = []types.Category{
  {Name: "Tumor Suppressor", Color: "#ff3333"},
  {Name: "Oncogene", Color: "#00ff88"},
  {Name: "Kinase", Color: "#ffaa00"},
  {Name: "Transcription Factor", Color: "#bc13fe"},
  {Name: "Other", Color: "#808080"},
  {Name: types.FallbackCategoryName, Color: types.DefaultCategoryColor},
}

var seedGenes = []seedGene{
  {"TP53", "Tumor Suppressor", "Guardian of the genome, master tumor suppressor"},
  {"BRCA1", "Tumor Suppressor", "DNA repair, hereditary breast/ovarian cancer"},
  {"BRCA2", "Tumor Suppressor", "DNA repair, hereditary breast/ovarian cancer"},
  {"PTEN", "Tumor Suppressor", "Phosphatase, PI3K/AKT pathway inhibitor"},
  {"ATM", "Tumor Suppressor", "DNA damage checkpoint kinase"},
  {"RB1", "Tumor Suppressor", "Retinoblastoma protein, cell cycle regulator"},
  {"APC", "Tumor Suppressor", "Wnt signaling pathway regulator"},
  {"VHL", "Tumor Suppressor", "Von Hippel-Lindau tumor suppressor"},
  {"WT1", "Tumor Suppressor", "Wilms tumor suppressor"},
  {"MEN1", "Tumor Suppressor", "Multiple endocrine neoplasia type 1"},
  {"CHEK2", "Tumor Suppressor", "Checkpoint kinase 2, DNA damage response"},
  {"NBN", "Tumor Suppressor", "Nijmegen breakage syndrome protein"},
  {"PALB2", "Tumor Suppressor", "BRCA2 partner in DNA repair"},
  {"BARD1", "Tumor Suppressor", "BRCA1-associated RING domain protein"},
  {"MLH1", "Tumor Suppressor", "DNA mismatch repair"},
  {"MSH2", "Tumor Suppressor", "DNA mismatch repair"},
  {"MSH6", "Tumor Suppressor", "DNA mismatch repair"},
  {"PMS2", "Tumor Suppressor", "DNA mismatch repair"},
  {"STK11", "Tumor Suppressor", "Serine/threonine kinase, Peutz-Jeghers syndrome"},
  {"SMAD4", "Tumor Suppressor", "TGF-beta signaling pathway"},
  {"EGFR", "Oncogene", "Epidermal growth factor receptor, tyrosine kinase"},
  {"ERBB2", "Oncogene", "HER2, receptor tyrosine kinase, breast cancer"},
  {"MYC", "Oncogene", "Master transcription factor, cell proliferation"},
  {"KRAS", "Oncogene", "RAS family GTPase, highly mutated in cancer"},
  {"HRAS", "Oncogene", "RAS family GTPase"},
  {"NRAS", "Oncogene", "RAS family GTPase"},
  {"JUN", "Oncogene", "AP-1 transcription factor"},
  {"FOS", "Oncogene", "AP-1 transcription factor"},
  {"ABL1", "Oncogene", "Tyrosine kinase, BCR-ABL fusion in CML"},
  {"BCL2", "Oncogene", "Anti-apoptotic protein"},
  {"MET", "Oncogene", "Hepatocyte growth factor receptor"},
  {"RET", "Oncogene", "Receptor tyrosine kinase"},
  {"ROS1", "Oncogene", "Receptor tyrosine kinase"},
  {"FLT3", "Oncogene", "Tyrosine kinase receptor, AML"},
  {"KIT", "Oncogene", "Stem cell factor receptor"},
  {"PDGFRA", "Oncogene", "Platelet-derived growth factor receptor"},
  {"AKT1", "Kinase", "Serine/threonine kinase, PI3K/AKT pathway"},
  {"PIK3CA", "Kinase", "PI3-kinase catalytic subunit alpha"},
  {"CDK4", "Kinase", "Cyclin-dependent kinase 4, cell cycle"},
  {"CDK6", "Kinase", "Cyclin-dependent kinase 6, cell cycle"},
  {"BRAF", "Kinase", "Serine/threonine kinase, MAPK pathway"},
  {"RAF1", "Kinase", "Serine/threonine kinase, MAPK pathway"},
  {"MAP2K1", "Kinase", "MEK1, MAPK pathway"},
  {"ALK", "Kinase", "Anaplastic lymphoma kinase"},
  {"SRC", "Kinase", "Proto-oncogene tyrosine kinase"},
  {"AKT2", "Kinase", "Serine/threonine kinase, PI3K/AKT pathway"},
  {"AKT3", "Kinase", "Serine/threonine kinase, PI3K/AKT pathway"},
  {"PIK3R1", "Kinase", "PI3-kinase regulatory subunit"},
  {"MTOR", "Kinase", "Mechanistic target of rapamycin"},
  {"JAK2", "Kinase", "Janus kinase 2"},
  {"MAP2K2", "Kinase", "MEK2, MAPK pathway"},
  {"CCND1", "Transcription Factor", "Cyclin D1, cell cycle regulator"},
  {"E2F1", "Transcription Factor", "E2F family, cell cycle transcription"},
  {"STAT3", "Transcription Factor", "Signal transducer and activator of transcription"},
  {"NFKB1", "Transcription Factor", "NF-kappa-B, inflammation and immunity"},
  {"HIF1A", "Transcription Factor", "Hypoxia-inducible factor 1-alpha"},
  {"ESR1", "Transcription Factor", "Estrogen receptor alpha"},
  {"FOXA1", "Transcription Factor", "Forkhead box protein A1"},
  {"CDKN2A", "Transcription Factor", "p16INK4a, cell cycle inhibitor"},
  {"CDKN1A", "Transcription Factor", "p21, CDK inhibitor"},
  {"E2F3", "Transcription Factor", "E2F family, cell cycle transcription"},
  {"MDM2", "Transcription Factor", "E3 ubiquitin ligase, p53 regulator"},
  {"MYCN", "Transcription Factor", "MYC family, neuroblastoma"},
  {"NOTCH1", "Transcription Factor", "Notch signaling pathway"},
  {"CTNNB1", "Transcription Factor", "Beta-catenin, Wnt signaling"},
}

// Seed populates the category palette and the initial gene panel. Existing
// rows are left untouched so repeated startups are safe.
func (s *Service) Seed() error {
  for i := range seedCategories {
    cat := seedCategories[i]
    var existing types.Category
    err := s.db.Where("name = ?", cat.Name).First(&existing).Error
    if err == nil {
      continue
    }
    if !errors.Is(err, gorm.ErrRecordNotFound) {
      return fmt.Errorf("seed category lookup failed: %w", err)
    }
    if err := s.db.Create(&cat).Error; err != nil {
      return fmt.Errorf("seed category create failed: %w", err)
    }
    s.log.Debug("Seeded category", "name", cat.Name, "color", cat.Color)
  }

  added := 0
  skipped := 0
  for _, sg := range seedGenes {
    var count int64
    if err := s.db.Model(&types.Gene{}).Where("symbol = ?", sg.symbol).Count(&count).Error; err != nil {
      return fmt.Errorf("seed gene lookup failed: %w", err)
    }
    if count > 0 {
      skipped++
      continue
    }
    var cat types.Category
    if err := s.db.Where("name = ?", sg.category).First(&cat).Error; err != nil {
      return fmt.Errorf("seed gene category missing %q: %w", sg.category, err)
    }
    catID := cat.ID
    gene := types.Gene{
      Symbol:      sg.symbol,
      CategoryID:  &catID,
      Description: sg.description,
    }
    if err := s.db.Create(&gene).Error; err != nil {
      return fmt.Errorf("seed gene create failed: %w", err)
    }
    added++
  }

  s.log.Info("Seeding complete", "genes_added", added, "genes_skipped", skipped, "categories", len(seedCategories))
  return nil
}
