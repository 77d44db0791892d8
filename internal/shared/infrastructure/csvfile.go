package infrastructure

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVFile contenu complet d'un fichier CSV chargé en mémoire
type CSVFile struct {
	Header []string
	Rows   [][]string
	// MalformedLines numéros de ligne (en-tête = 1) des enregistrements ignorés
	MalformedLines []int
}

// ReadOptions tolérance du lecteur CSV
type ReadOptions struct {
	// LazyQuotes accepte un guillemet isolé dans un champ non cité (6" Tablet)
	LazyQuotes bool
	// SkipMalformed ignore un enregistrement illisible au lieu d'échouer.
	// L'en-tête reste obligatoire et lisible.
	SkipMalformed bool
}

// ReadCSV charge un fichier CSV entier en mode strict.
// Un BOM UTF-8 éventuel (fichiers ré-enregistrés par Excel) est retiré.
// Les lignes de longueur variable sont acceptées: le contrôle se fait par colonne nommée.
// Header est nil pour un fichier vide.
func ReadCSV(path string) (*CSVFile, error) {
	return ReadCSVWith(path, ReadOptions{})
}

// ReadCSVWith charge un fichier CSV entier avec les options données
func ReadCSVWith(path string, opts ReadOptions) (*CSVFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = opts.LazyQuotes

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &CSVFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	// Pré-allocation approximative: la taille moyenne d'une ligne est inconnue ici
	file := &CSVFile{
		Header: header,
		Rows:   make([][]string, 0, bytes.Count(data, []byte{'\n'})),
	}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if opts.SkipMalformed && errors.As(err, &parseErr) {
			file.MalformedLines = append(file.MalformedLines, parseErr.StartLine)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		file.Rows = append(file.Rows, record)
	}

	return file, nil
}

// WriteOptions configure l'écriture d'un fichier CSV
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // BOM UTF-8 pour qu'Excel reconnaisse l'encodage
}

// WriteCSV écrit un fichier CSV de manière atomique (fichier temporaire puis rename)
func WriteCSV(path string, options WriteOptions) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		if options.BOMPrefix {
			if _, err := w.Write(utf8BOM); err != nil {
				return fmt.Errorf("write BOM: %w", err)
			}
		}

		writer := csv.NewWriter(w)
		if len(options.Headers) > 0 {
			if err := writer.Write(options.Headers); err != nil {
				return fmt.Errorf("write headers: %w", err)
			}
		}
		for i, record := range options.Records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("write record %d: %w", i+1, err)
			}
		}
		writer.Flush()
		return writer.Error()
	})
}

// WriteFileAtomic écrit via fn dans un fichier temporaire du même répertoire puis le renomme.
// En cas d'erreur le fichier cible précédent reste intact et le temporaire est supprimé.
func WriteFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fn(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
