package service

import "fmt"

func doctorsListPrompt(context string) string {
	return fmt.Sprintf(`Based on the context, extract ALL doctors with their specialties.

CRITICAL FORMATTING RULES:
- Format EXACTLY as: Number. Dr. Full Name, Specialty
- Ensure ALL numbers are sequential starting from 1
- Do NOT skip any numbers
- If specialty is not clear, use "General Medicine"
- Include ALL doctors mentioned in the context
- Do not add any introductory text, notes, or explanations
- Each doctor on a separate line

Context:
%s

Doctors List:`, context)
}

func departmentsListPrompt(context string) string {
	return fmt.Sprintf(`Based on the context, extract ALL hospital departments.

Format each entry as: Number. Department Name

Important rules:
- List EVERY department mentioned in the context
- Each department on a separate line with number
- Format: "1. Department Name"
- Include ALL available departments
- Do not skip any departments mentioned
- Do not add any introductory text or notes

Context:
%s

Departments List:`, context)
}

func doctorDetailPrompt(hospitalName, doctorName, specialty, context string) string {
	return fmt.Sprintf(`Based on the context, provide detailed information about Dr. %s.

If specific information is not available, provide general information about %s department at %s.

Include whatever information is available:
- Full name and title
- Specialty/Department
- Qualifications (if available)
- Experience (if available)
- Contact information (if available)
- Consultation hours (if available)
- Any other relevant details

If detailed information is not found, provide helpful guidance about consulting %s department.

Context:
%s

Doctor Information:`, doctorName, specialty, hospitalName, specialty, context)
}

func medicalQueryPrompt(hospitalName, message, context string) string {
	return fmt.Sprintf(`You are a helpful AI assistant for %s. A user is asking a medical-related question.

User Question: %s

Available Hospital Context:
%s

IMPORTANT GUIDELINES:
1. Use the hospital context above to provide relevant information
2. If the context contains specific information about the hospital's services, doctors, or departments related to this query, share that information
3. You can provide general medical information that would be helpful, but always clarify this is general knowledge
4. EMPHASIZE that for proper medical advice, they should consult with healthcare professionals
5. Be helpful and informative while maintaining medical accuracy
6. If the context doesn't have specific information, still try to be helpful by guiding them to the right department or suggesting they contact the hospital

Provide a comprehensive, helpful response:`, hospitalName, message, context)
}

func generalQueryPrompt(hospitalName, message, context string) string {
	return fmt.Sprintf(`You are an AI assistant for %s. Your role is to provide helpful information to hospital visitors, staff, and administrators.

IMPORTANT GUIDELINES:
1. Use the information provided in the Context below as your primary knowledge source
2. If the Context contains relevant information, provide a comprehensive answer based on it
3. If the Context doesn't contain specific details but you can provide general medical/hospital guidance, do so while being clear about limitations
4. For medical advice: Always recommend consulting with healthcare professionals
5. Be helpful, accurate, and professional in all responses

Context (Retrieved Information):
%s

Current Question: %s

RESPONSE GUIDELINES:
- For doctors: Provide names, specialties, and available information. If listing multiple doctors, use numbered format.
- For departments: Include services, locations, and available details
- For medical queries: Provide general information but emphasize consulting doctors
- For appointments: Explain the process based on available information
- For symptoms: Provide general guidance but recommend medical consultation
- Always be helpful and avoid saying "I don't know" unless absolutely necessary

Answer in a helpful, informative tone:`, hospitalName, context, message)
}
